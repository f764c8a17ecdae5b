package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admincore/internal/application/authz"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/logger"
	"admincore/internal/shared/utils"
)

type PermissionMiddleware struct {
	authzService *authz.Service
	auditSink    audit.Sink
	logger       logger.Interface
}

func NewPermissionMiddleware(authzService *authz.Service, auditSink audit.Sink, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		authzService: authzService,
		auditSink:    auditSink,
		logger:       logger,
	}
}

// RequireAnyPermission allows the request when the principal's role holds
// at least one of the given codes.
func (m *PermissionMiddleware) RequireAnyPermission(codes ...string) gin.HandlerFunc {
	return m.require(authz.ModeAny, codes)
}

// RequireAllPermissions allows the request only when the principal's role
// holds every one of the given codes.
func (m *PermissionMiddleware) RequireAllPermissions(codes ...string) gin.HandlerFunc {
	return m.require(authz.ModeAll, codes)
}

func (m *PermissionMiddleware) require(mode authz.Mode, codes []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principalID, exists := c.Get("principal_id")
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "principal not authenticated")
			c.Abort()
			return
		}

		if err := m.authzService.Authorize(c.Request.Context(), principalID.(uint), codes, mode); err != nil {
			m.auditSink.Emit(c.Request.Context(), audit.Event{
				Type:        audit.EventPermissionDenied,
				PrincipalID: principalID.(uint),
				IPAddress:   c.ClientIP(),
				Detail:      c.Request.Method + " " + c.Request.URL.Path,
			})
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
