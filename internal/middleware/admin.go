package middleware

import (
	"online_shop/internal/apperr" // Error envelope
	"online_shop/internal/auth"   // Caller identity
	"online_shop/internal/domain" // Role enumeration

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// RequireRole admits callers whose token carries one of roles
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.FromContext(c) // Identity set by Authenticate
		// Check if the caller is authenticated at all
		if id == nil {
			apperr.Respond(c, apperr.Unauthorized("Unauthorized"))
			return
		}
		// Check the role carried by the token
		if !id.HasRole(roles...) {
			logrus.WithFields(logrus.Fields{"user_id": id.UserID, "role": id.Role, "path": c.FullPath()}).Warn("Role check failed")
			apperr.Respond(c, apperr.Forbidden("Access denied"))
			return
		}
		c.Next()
	}
}
