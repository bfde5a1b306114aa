package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hearth/internal/auth"
)

// ContextUserID is the gin context key under which RequireAuth stores
// the authenticated user's id.
const ContextUserID = "user_id"

type AuthMiddleware struct {
	tokenService *auth.TokenService
}

func NewAuthMiddleware(ts *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: ts}
}

// RequireAuth rejects requests without a valid bearer token and stores
// the token's user id in the gin context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		userID, err := m.tokenService.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID extracts the authenticated user's id set by RequireAuth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
