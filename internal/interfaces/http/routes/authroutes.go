package routes

import (
	"github.com/gin-gonic/gin"

	"admincore/internal/application/authz"
	"admincore/internal/interfaces/http/handlers"
	"admincore/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler          *handlers.AuthHandler
	PasswordHandler      *handlers.PasswordHandler
	SessionHandler       *handlers.SessionHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	RateLimiter          *middleware.RateLimitMiddleware
}

// SetupAuthRoutes configures the authentication and session routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	requireAuth := cfg.AuthMiddleware.RequireAuth()

	auth := engine.Group("/api/auth")
	{
		auth.POST("/register",
			requireAuth,
			cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserCreate),
			cfg.AuthHandler.Register)
		auth.POST("/login", cfg.RateLimiter.Limit("login"), cfg.AuthHandler.Login)
		auth.POST("/logout", requireAuth, cfg.AuthHandler.Logout)
		auth.POST("/refresh-token", cfg.AuthHandler.RefreshToken)
		auth.POST("/change-password", requireAuth, cfg.AuthHandler.ChangePassword)

		password := auth.Group("/password")
		{
			password.POST("/request-reset",
				cfg.RateLimiter.Limit("request-reset"),
				cfg.PasswordHandler.RequestReset)
			password.POST("/verify-token", cfg.PasswordHandler.VerifyToken)
			password.POST("/reset", cfg.PasswordHandler.ResetPassword)
			password.GET("/reset-status/:principalId",
				requireAuth,
				cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserRead),
				cfg.PasswordHandler.ResetStatus)
			password.POST("/:principalId/request-reset",
				requireAuth,
				cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserUpdate),
				cfg.PasswordHandler.AdminRequestReset)
			password.POST("/:principalId/admin-reset",
				requireAuth,
				cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserUpdate),
				cfg.PasswordHandler.AdminReset)
		}

		auth.GET("/sessions", requireAuth, cfg.SessionHandler.GetOwnSessions)
		auth.GET("/sessions/:principalId",
			requireAuth,
			cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserRead),
			cfg.SessionHandler.GetSessions)
		auth.POST("/logout-all", requireAuth, cfg.SessionHandler.LogoutOwnDevices)
		auth.POST("/logout-all/:principalId",
			requireAuth,
			cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserUpdate),
			cfg.SessionHandler.LogoutAllDevices)
		auth.GET("/login-attempts/:principalId",
			requireAuth,
			cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserRead),
			cfg.SessionHandler.GetLoginAttempts)
		auth.GET("/login-history/:principalId",
			requireAuth,
			cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserRead),
			cfg.SessionHandler.GetLoginHistory)
		auth.POST("/unlock/:principalId",
			requireAuth,
			cfg.PermissionMiddleware.RequireAnyPermission(authz.PermUserUpdate),
			cfg.SessionHandler.UnlockAccount)
	}
}
