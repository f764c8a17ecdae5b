package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"admincore/internal/application/auth/usecases"
	"admincore/internal/domain/reset"
	"admincore/internal/shared/logger"
	"admincore/internal/shared/utils"
)

// PasswordHandler serves the password reset flow. Plaintext reset tokens
// and temporary passwords appear only in the response of the operation
// that generated them.
type PasswordHandler struct {
	requestResetUseCase  requestPasswordResetUseCase
	verifyTokenUseCase   verifyResetTokenUseCase
	resetPasswordUseCase resetPasswordUseCase
	adminResetUseCase    adminResetPasswordUseCase
	resetStatusUseCase   getPasswordResetStatusUseCase
	logger               logger.Interface
}

func NewPasswordHandler(
	requestResetUC requestPasswordResetUseCase,
	verifyTokenUC verifyResetTokenUseCase,
	resetPasswordUC resetPasswordUseCase,
	adminResetUC adminResetPasswordUseCase,
	resetStatusUC getPasswordResetStatusUseCase,
	logger logger.Interface,
) *PasswordHandler {
	return &PasswordHandler{
		requestResetUseCase:  requestResetUC,
		verifyTokenUseCase:   verifyTokenUC,
		resetPasswordUseCase: resetPasswordUC,
		adminResetUseCase:    adminResetUC,
		resetStatusUseCase:   resetStatusUC,
		logger:               logger,
	}
}

type RequestResetRequest struct {
	Username string `json:"username" binding:"required"`
}

type VerifyResetTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// RequestReset opens a reset request by username. The response shape is
// identical whether or not the username resolves to an account, so
// usernames cannot be probed through this route.
func (h *PasswordHandler) RequestReset(c *gin.Context) {
	var req RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.RequestPasswordResetCommand{
		Username:  req.Username,
		Reason:    reset.ReasonUserRequest,
		RequestIP: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.requestResetUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	data := gin.H{}
	if result.Issued {
		data["token"] = result.Token
		data["expires_at"] = result.ExpiresAt
	}
	utils.SuccessResponse(c, http.StatusOK, "if the account exists, a reset token has been issued", data)
}

// AdminRequestReset opens a forced reset request for another principal.
func (h *PasswordHandler) AdminRequestReset(c *gin.Context) {
	principalID, ok := principalIDParam(c)
	if !ok {
		return
	}

	cmd := usecases.RequestPasswordResetCommand{
		PrincipalID: principalID,
		Reason:      reset.ReasonAdminForced,
		RequestIP:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}

	result, err := h.requestResetUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "reset token issued", gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

func (h *PasswordHandler) VerifyToken(c *gin.Context) {
	var req VerifyResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.verifyTokenUseCase.Execute(c.Request.Context(), usecases.VerifyResetTokenCommand{Token: req.Token})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	data := gin.H{"valid": result.Valid}
	if result.Valid {
		data["username"] = result.Username
		data["expires_at"] = result.ExpiresAt
	}

	utils.SuccessResponse(c, http.StatusOK, "token verified", data)
}

func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.ResetPasswordCommand{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}

	result, err := h.resetPasswordUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "password reset successfully", gin.H{
		"username": result.Username,
	})
}

// AdminReset replaces the target account's password with a random
// temporary one and unlocks it.
func (h *PasswordHandler) AdminReset(c *gin.Context) {
	targetID, ok := principalIDParam(c)
	if !ok {
		return
	}
	adminID := c.GetUint("principal_id")

	cmd := usecases.AdminResetPasswordCommand{
		TargetPrincipalID: targetID,
		AdminPrincipalID:  adminID,
	}

	result, err := h.adminResetUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "temporary password issued", gin.H{
		"temporary_password": result.TemporaryPassword,
	})
}

func (h *PasswordHandler) ResetStatus(c *gin.Context) {
	principalID, ok := principalIDParam(c)
	if !ok {
		return
	}

	result, err := h.resetStatusUseCase.Execute(c.Request.Context(), usecases.GetPasswordResetStatusQuery{PrincipalID: principalID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "reset status", result)
}

// principalIDParam parses the :principalId path parameter, writing a 400
// response when it is missing or malformed.
func principalIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("principalId")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid principal id")
		return 0, false
	}
	return uint(id), true
}
