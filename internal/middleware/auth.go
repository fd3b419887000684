package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/security"
)

// UserIDKey holds the authenticated user's id in the gin context.
const UserIDKey = "user_id"

const (
	msgNoToken      = "No token provided"
	msgInvalidToken = "Invalid token"
)

// Auth requires a valid "Bearer <jwt>" Authorization header. Every
// failure is a 403.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperror.Forbidden(msgNoToken))
			return
		}

		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
			abort(c, apperror.Forbidden(msgInvalidToken))
			return
		}

		claims, err := security.ParseAccessToken(tokenStr, secret)
		if err != nil {
			abort(c, apperror.Wrap(err, http.StatusForbidden, msgInvalidToken))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the id Auth stored for this request.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
