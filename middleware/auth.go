// middleware/auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/service"
)

// Auth validates the bearer token and places the requesting user's identity
// in both the gin context and the request context, where the DAO audit trail
// reads it.
func Auth(authSvc service.IAuthService, userSvc service.IUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		claims, err := authSvc.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Warn("Token validation failed", zap.Error(err), zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// The token's role is a hint; the record is authoritative so a
		// revocation takes effect before the token expires.
		user, err := userSvc.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			c.Abort()
			return
		}

		c.Set("requestingUserID", user.ID)
		c.Set("requestingUser", user)

		// The DAO audit trail reads the actor from the request context, which
		// also travels through code that never sees the gin context.
		ctx := context.WithValue(c.Request.Context(), "requestingUserID", user.ID)
		ctx = context.WithValue(ctx, "requestingUser", user)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole refuses requests from users below any of the given roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := RequestingUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		c.Abort()
	}
}

// RequestingUser returns the authenticated user set by Auth, or nil.
func RequestingUser(c *gin.Context) *model.User {
	if v, exists := c.Get("requestingUser"); exists {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
