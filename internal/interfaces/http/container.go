package http

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"admincore/internal/application/auth/usecases"
	"admincore/internal/application/authz"
	"admincore/internal/domain/account"
	"admincore/internal/domain/principal"
	"admincore/internal/domain/reset"
	"admincore/internal/domain/role"
	infraaudit "admincore/internal/infrastructure/audit"
	"admincore/internal/infrastructure/auth"
	"admincore/internal/infrastructure/config"
	"admincore/internal/infrastructure/ratelimit"
	"admincore/internal/infrastructure/repository"
	"admincore/internal/interfaces/http/handlers"
	"admincore/internal/interfaces/http/middleware"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/logger"
)

// Container wires repositories, use cases, middleware and handlers.
type Container struct {
	cfg *config.Config
	log logger.Interface

	// Repositories
	accountRepo   account.Repository
	principalRepo principal.Repository
	resetRepo     reset.Repository
	roleRepo      role.Repository

	// Infrastructure services
	jwtService *auth.JWTService
	tokens     *tokenServiceAdapter
	hasher     *auth.BcryptHasher
	auditSink  audit.Sink
	authzSvc   *authz.Service

	// Middleware
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimitMiddleware

	// Handlers
	authHandler     *handlers.AuthHandler
	passwordHandler *handlers.PasswordHandler
	sessionHandler  *handlers.SessionHandler
}

// NewContainer builds the full dependency graph. redisClient may be nil;
// rate limiting then degrades to a no-op limiter.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{cfg: cfg, log: log}

	c.accountRepo = repository.NewAccountRepository(db)
	c.principalRepo = repository.NewPrincipalRepository(db)
	c.resetRepo = repository.NewResetTokenRepository(db)
	c.roleRepo = repository.NewRoleRepository(db)

	c.jwtService = auth.NewJWTService(
		cfg.Auth.JWT.AccessSecret,
		cfg.Auth.JWT.RefreshSecret,
		cfg.Auth.JWT.AccessExpMinutes,
		cfg.Auth.JWT.RefreshExpDays,
	)
	c.tokens = &tokenServiceAdapter{JWTService: c.jwtService}
	c.hasher = auth.NewBcryptHasher(cfg.Auth.Password.BcryptCost)
	c.auditSink = infraaudit.NewSlogSink(log)
	c.authzSvc = authz.NewService(c.principalRepo, c.roleRepo, log)

	var limiter ratelimit.Limiter = ratelimit.NopLimiter{}
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds, log)
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtService, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.authzSvc, c.auditSink, log)
	c.rateLimiter = middleware.NewRateLimitMiddleware(limiter, log)

	c.buildHandlers()

	return c
}

func (c *Container) buildHandlers() {
	registerUC := usecases.NewRegisterCredentialsUseCase(c.accountRepo, c.principalRepo, c.hasher, c.auditSink, c.log)
	loginUC := usecases.NewLoginUseCase(c.accountRepo, c.principalRepo, c.hasher, c.tokens, c.auditSink, c.log)
	logoutUC := usecases.NewLogoutUseCase(c.accountRepo, c.auditSink, c.log)
	refreshUC := usecases.NewRefreshTokenUseCase(c.accountRepo, c.tokens, c.auditSink, c.log)
	changePasswordUC := usecases.NewChangePasswordUseCase(c.accountRepo, c.resetRepo, c.hasher, c.auditSink, c.log)

	c.authHandler = handlers.NewAuthHandler(
		registerUC, loginUC, logoutUC, refreshUC, changePasswordUC,
		c.log, c.cfg.Auth.Cookie, c.cfg.Auth.JWT,
	)

	resetExpiry := time.Duration(c.cfg.Auth.Reset.ExpiresMinutes) * time.Minute
	requestResetUC := usecases.NewRequestPasswordResetUseCase(c.accountRepo, c.principalRepo, c.resetRepo, resetExpiry, c.auditSink, c.log)
	verifyTokenUC := usecases.NewVerifyResetTokenUseCase(c.resetRepo, c.accountRepo, c.log)
	resetPasswordUC := usecases.NewResetPasswordUseCase(c.accountRepo, c.resetRepo, c.hasher, c.auditSink, c.log)
	adminResetUC := usecases.NewAdminResetPasswordUseCase(c.accountRepo, c.resetRepo, c.hasher, c.auditSink, c.log)
	resetStatusUC := usecases.NewGetPasswordResetStatusUseCase(c.resetRepo, c.log)

	c.passwordHandler = handlers.NewPasswordHandler(
		requestResetUC, verifyTokenUC, resetPasswordUC, adminResetUC, resetStatusUC, c.log,
	)

	sessionsUC := usecases.NewGetSessionsUseCase(c.accountRepo, c.log)
	logoutAllUC := usecases.NewLogoutAllDevicesUseCase(c.accountRepo, c.auditSink, c.log)
	attemptsUC := usecases.NewGetLoginAttemptsUseCase(c.accountRepo, c.log)
	historyUC := usecases.NewGetLoginHistoryUseCase(c.accountRepo, c.log)
	unlockUC := usecases.NewUnlockAccountUseCase(c.accountRepo, c.auditSink, c.log)

	c.sessionHandler = handlers.NewSessionHandler(
		sessionsUC, logoutAllUC, attemptsUC, historyUC, unlockUC, c.log,
	)
}
