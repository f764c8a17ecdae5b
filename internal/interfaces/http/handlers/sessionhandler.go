package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"admincore/internal/application/auth/usecases"
	"admincore/internal/shared/logger"
	"admincore/internal/shared/utils"
)

// SessionHandler serves device session and lockout queries plus the
// admin session management operations.
type SessionHandler struct {
	getSessionsUseCase   getSessionsUseCase
	logoutAllUseCase     logoutAllDevicesUseCase
	loginAttemptsUseCase getLoginAttemptsUseCase
	loginHistoryUseCase  getLoginHistoryUseCase
	unlockUseCase        unlockAccountUseCase
	logger               logger.Interface
}

func NewSessionHandler(
	getSessionsUC getSessionsUseCase,
	logoutAllUC logoutAllDevicesUseCase,
	loginAttemptsUC getLoginAttemptsUseCase,
	loginHistoryUC getLoginHistoryUseCase,
	unlockUC unlockAccountUseCase,
	logger logger.Interface,
) *SessionHandler {
	return &SessionHandler{
		getSessionsUseCase:   getSessionsUC,
		logoutAllUseCase:     logoutAllUC,
		loginAttemptsUseCase: loginAttemptsUC,
		loginHistoryUseCase:  loginHistoryUC,
		unlockUseCase:        unlockUC,
		logger:               logger,
	}
}

func (h *SessionHandler) GetSessions(c *gin.Context) {
	principalID, ok := principalIDParam(c)
	if !ok {
		return
	}

	result, err := h.getSessionsUseCase.Execute(c.Request.Context(), usecases.GetSessionsQuery{PrincipalID: principalID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "sessions", gin.H{
		"principal_id": result.PrincipalID,
		"is_logged_in": result.IsLoggedIn,
		"sessions":     result.Sessions,
	})
}

// GetOwnSessions lists the authenticated principal's own devices.
func (h *SessionHandler) GetOwnSessions(c *gin.Context) {
	principalID := c.GetUint("principal_id")

	result, err := h.getSessionsUseCase.Execute(c.Request.Context(), usecases.GetSessionsQuery{PrincipalID: principalID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "sessions", gin.H{
		"principal_id": result.PrincipalID,
		"is_logged_in": result.IsLoggedIn,
		"sessions":     result.Sessions,
	})
}

func (h *SessionHandler) LogoutAllDevices(c *gin.Context) {
	principalID, ok := principalIDParam(c)
	if !ok {
		return
	}

	result, err := h.logoutAllUseCase.Execute(c.Request.Context(), usecases.LogoutAllDevicesCommand{PrincipalID: principalID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "all devices logged out", gin.H{
		"logged_out_devices": result.LoggedOutDevices,
	})
}

// LogoutOwnDevices closes every session of the authenticated principal.
func (h *SessionHandler) LogoutOwnDevices(c *gin.Context) {
	principalID := c.GetUint("principal_id")

	result, err := h.logoutAllUseCase.Execute(c.Request.Context(), usecases.LogoutAllDevicesCommand{PrincipalID: principalID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "all devices logged out", gin.H{
		"logged_out_devices": result.LoggedOutDevices,
	})
}

func (h *SessionHandler) GetLoginAttempts(c *gin.Context) {
	principalID, ok := principalIDParam(c)
	if !ok {
		return
	}

	result, err := h.loginAttemptsUseCase.Execute(c.Request.Context(), usecases.GetLoginAttemptsQuery{PrincipalID: principalID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login attempts", result)
}

func (h *SessionHandler) GetLoginHistory(c *gin.Context) {
	principalID, ok := principalIDParam(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	query := usecases.GetLoginHistoryQuery{
		PrincipalID: principalID,
		Page:        page,
		PageSize:    pageSize,
	}

	result, err := h.loginHistoryUseCase.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Entries, int64(result.Total), result.Page, result.PageSize)
}

func (h *SessionHandler) UnlockAccount(c *gin.Context) {
	principalID, ok := principalIDParam(c)
	if !ok {
		return
	}
	adminID := c.GetUint("principal_id")

	cmd := usecases.UnlockAccountCommand{
		PrincipalID:      principalID,
		AdminPrincipalID: adminID,
	}

	if err := h.unlockUseCase.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "account unlocked", nil)
}
