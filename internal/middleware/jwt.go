package middleware

import (
	"net/http" // HTTP methods
	"strings"  // String manipulation

	"online_shop/internal/apperr" // Error envelope
	"online_shop/internal/auth"   // Caller identity
	"online_shop/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Authenticate resolves the bearer token into an identity. Requests without an
// Authorization header continue anonymously; a malformed or invalid token is rejected.
func Authenticate(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Preflight requests never carry credentials
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" {
			c.Next() // Anonymous caller
			return
		}
		// Header present: it must be a well formed bearer token
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			apperr.Respond(c, apperr.Unauthorized("Missing or invalid Authorization header"))
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(tokenStr)) // Parse the JWT token
		if err != nil {
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Debug("Token rejected")
			apperr.Respond(c, apperr.Unauthorized("Invalid or expired token"))
			return
		}
		auth.SetIdentity(c, &auth.Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
		c.Next() // Proceed to the next handler
	}
}

// RequireAuth rejects anonymous callers
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.FromContext(c) == nil {
			apperr.Respond(c, apperr.Unauthorized("Unauthorized"))
			return
		}
		c.Next()
	}
}
