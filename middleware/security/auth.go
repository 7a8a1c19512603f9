package security

import (
	"net/http"
	"strings"

	seclib "FProject/tools/security"

	"github.com/gin-gonic/gin"
)

// —— context key ——
const (
	CtxUserIDKey = "userID" // string
)

type Options struct {
	JwtOpts seclib.Options
	// RequireAdmin 时用这个回调做角色检查
	IsAdmin      func(c *gin.Context, userID string) bool
	RequireAdmin bool
}

// Middleware 解析 Authorization: Bearer <jwt>，通过后把 userID 放进 context。
func Middleware(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[len("bearer "):])
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		userID, err := seclib.Verify(opts.JwtOpts, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if opts.RequireAdmin {
			if opts.IsAdmin == nil || !opts.IsAdmin(c, userID) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
				return
			}
		}

		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
