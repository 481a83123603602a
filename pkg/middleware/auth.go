package middleware

import (
	"strings"

	"github.com/jabol183/ezbots-V2/pkg/errors"
	"github.com/jabol183/ezbots-V2/pkg/jwt"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JWTAuth checks that the request has a valid JWT and adds claims to the context
func JWTAuth(jwtService *jwt.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Error(errors.NewUnauthorizedError("AUTH_REQUIRED", "Authorization header is required"))
			c.Abort()
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			log.Warn("invalid JWT token", "error", err.Error())
			c.Error(errors.NewUnauthorizedError("INVALID_TOKEN", "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("userId", claims.UserID)

		c.Next()
	}
}

// UserID extracts the authenticated user ID from the gin context.
// The second return value is false when the auth middleware did not run.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userId")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
