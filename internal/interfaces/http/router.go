package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"admincore/internal/infrastructure/config"
	"admincore/internal/interfaces/http/middleware"
	"admincore/internal/interfaces/http/routes"
	"admincore/internal/shared/logger"
)

// Router assembles the gin engine with all middleware and routes.
type Router struct {
	engine    *gin.Engine
	container *Container
}

func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	return &Router{
		engine:    gin.New(),
		container: NewContainer(db, redisClient, cfg, log),
	}
}

// SetupRoutes registers global middleware and the route table.
func (r *Router) SetupRoutes() {
	cfg := r.container.cfg

	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestLogger(r.container.log))
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:          r.container.authHandler,
		PasswordHandler:      r.container.passwordHandler,
		SessionHandler:       r.container.sessionHandler,
		AuthMiddleware:       r.container.authMiddleware,
		PermissionMiddleware: r.container.permissionMiddleware,
		RateLimiter:          r.container.rateLimiter,
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
