package api

import (
	"net/http" // HTTP status codes

	"online_shop/internal/apperr"  // Error envelope
	"online_shop/internal/auth"    // Caller identity
	"online_shop/internal/service" // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for registration
type RegisterRequest struct {
	Email    string `json:"email"`    // Account email
	Password string `json:"password"` // Plain password
	Role     string `json:"role"`     // Optional, USER by default
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email"`    // Account email
	Password string `json:"password"` // Plain password
}

// Request struct for creating the first admin
type InitAdminRequest struct {
	Email    string `json:"email"`    // Admin email
	Password string `json:"password"` // Admin password
	Secret   string `json:"secret"`   // Must match the configured bootstrap secret
}

// RegisterHandler creates an account with its basket and returns a token
func RegisterHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		res, err := users.Register(c.Request.Context(), auth.FromContext(c), req.Email, req.Password, req.Role)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		res, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// RefreshHandler issues a fresh token for the caller
func RefreshHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := users.Refresh(c.Request.Context(), auth.FromContext(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// InitAdminHandler creates the first admin account
func InitAdminHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitAdminRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		res, err := users.InitAdmin(c.Request.Context(), req.Email, req.Password, req.Secret)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}
