// internal/middleware/auth_middleware.go
package middleware

import (
	"context"
	"strings"

	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// actorKey is the gin context key for the authenticated actor.
const actorKey = "leaddesk.actor"

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.Actor, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// Auth validates the bearer token and stores the resolved actor on the context.
// Every failure gets the same 401 body.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractBearer(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, response.MsgUnauthenticated)
			return
		}

		actor, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, response.MsgUnauthenticated)
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireAdmin rejects non-admin actors. MUST be used after Auth().
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.IsAdmin() {
			response.Forbidden(c, response.MsgAccessDenied)
			return
		}
		c.Next()
	}
}

// AdminOnly returns middlewares for admin-only routes (Auth + RequireAdmin)
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireAdmin(),
	}
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>" value.
func ExtractBearer(header string) string {
	parts := strings.Fields(header)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
