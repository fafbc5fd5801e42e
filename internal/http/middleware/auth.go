package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/http/response"
	"github.com/yungbote/lovepattern-backend/internal/platform/apierr"
	"github.com/yungbote/lovepattern-backend/internal/platform/ctxutil"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

var errMissingToken = errors.New("missing or invalid token")

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireSession binds the request to the session named by its token. The
// token comes from the Authorization header, or ?token= for EventSource and
// <img> requests that cannot set headers.
func (am *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errMissingToken)
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("rejected session token", "error", err)
			response.AbortError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, err)
			return
		}
		if ctxutil.SessionID(ctx) == "" {
			response.AbortError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errMissingToken)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
