package middleware

import (
	"github.com/gin-gonic/gin"

	"prepwise/internal/shared/utils"
)

// UserIDKey is the gin context key holding the authenticated user ID.
const UserIDKey = "user_id"

// userIDHeader carries the identity asserted by the API gateway in front
// of this service. Authentication itself happens upstream; here the
// header is trusted and only its presence is enforced.
const userIDHeader = "X-User-ID"

// IdentityMiddleware extracts the gateway-asserted user identity.
type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

// RequireUser aborts with 401 when no identity header is present.
func (m *IdentityMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			utils.ErrorResponse(c, 401, "missing user identity")
			c.Abort()
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalUser records the identity when present and continues either way.
// Anonymous callers see the free-tier view of gated resources.
func (m *IdentityMiddleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(userIDHeader); userID != "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// UserID returns the authenticated user ID from the context.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
