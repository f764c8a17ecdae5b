package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admincore/internal/application/auth/usecases"
	"admincore/internal/shared/config"
	"admincore/internal/shared/logger"
	"admincore/internal/shared/utils"
)

type AuthHandler struct {
	registerUseCase       registerCredentialsUseCase
	loginUseCase          loginUseCase
	logoutUseCase         logoutUseCase
	refreshTokenUseCase   refreshTokenUseCase
	changePasswordUseCase changePasswordUseCase
	logger                logger.Interface
	cookieConfig          config.CookieConfig
	jwtConfig             config.JWTConfig
}

func NewAuthHandler(
	registerUC registerCredentialsUseCase,
	loginUC loginUseCase,
	logoutUC logoutUseCase,
	refreshTokenUC refreshTokenUseCase,
	changePasswordUC changePasswordUseCase,
	logger logger.Interface,
	cookieConfig config.CookieConfig,
	jwtConfig config.JWTConfig,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase:       registerUC,
		loginUseCase:          loginUC,
		logoutUseCase:         logoutUC,
		refreshTokenUseCase:   refreshTokenUC,
		changePasswordUseCase: changePasswordUC,
		logger:                logger,
		cookieConfig:          cookieConfig,
		jwtConfig:             jwtConfig,
	}
}

type RegisterCredentialsRequest struct {
	PrincipalID uint   `json:"principal_id" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	// DeviceID identifies a returning device. Empty means a new device.
	DeviceID string `json:"device_id"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.RegisterCredentialsCommand{
		PrincipalID: req.PrincipalID,
		Username:    req.Username,
		Password:    req.Password,
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "credentials created", gin.H{
		"account_id":   result.AccountID,
		"principal_id": result.PrincipalID,
		"username":     result.Username,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.LoginCommand{
		Username:  req.Username,
		Password:  req.Password,
		DeviceID:  req.DeviceID,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	accessMaxAge := h.jwtConfig.AccessExpMinutes * 60
	refreshMaxAge := h.jwtConfig.RefreshExpDays * 24 * 60 * 60

	utils.SetAuthCookies(c, h.cookieConfig, result.AccessToken, result.RefreshToken, accessMaxAge, refreshMaxAge)

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"principal_id": result.PrincipalID,
		"username":     result.Username,
		"name":         result.Name,
		"device": gin.H{
			"device_id":     result.DeviceID,
			"is_new_device": result.IsNewDevice,
			"login_count":   result.LoginCount,
		},
		"session": gin.H{
			"is_logged_in":  result.IsLoggedIn,
			"total_devices": result.TotalDevices,
		},
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"expires_in":    result.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	principalID := c.GetUint("principal_id")
	deviceID := c.GetString("device_id")

	cmd := usecases.LogoutCommand{
		PrincipalID: principalID,
		DeviceID:    deviceID,
	}

	result, err := h.logoutUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ClearAuthCookies(c, h.cookieConfig)

	utils.SuccessResponse(c, http.StatusOK, "logout successful", gin.H{
		"logged_out_devices": result.LoggedOutDevices,
		"still_logged_in":    result.StillLoggedIn,
	})
}

// RefreshToken rotates the refresh token. The token is read from the
// cookie when present, otherwise from the request body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken := utils.GetTokenFromCookie(c, utils.RefreshTokenCookie)
	if refreshToken == "" {
		var req RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			utils.ErrorResponse(c, http.StatusBadRequest, "refresh token is required")
			return
		}
		refreshToken = req.RefreshToken
	}

	cmd := usecases.RefreshTokenCommand{
		RefreshToken: refreshToken,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.GetHeader("User-Agent"),
	}

	result, err := h.refreshTokenUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	accessMaxAge := h.jwtConfig.AccessExpMinutes * 60
	refreshMaxAge := h.jwtConfig.RefreshExpDays * 24 * 60 * 60

	utils.SetAuthCookies(c, h.cookieConfig, result.AccessToken, result.RefreshToken, accessMaxAge, refreshMaxAge)

	utils.SuccessResponse(c, http.StatusOK, "token refreshed", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"expires_in":    result.ExpiresIn,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principalID := c.GetUint("principal_id")

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.ChangePasswordCommand{
		PrincipalID:     principalID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}

	if err := h.changePasswordUseCase.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "password changed", nil)
}
