// Package auth carries the caller identity resolved from a bearer token and the
// ownership rule shared by profile, basket and order endpoints.
package auth

import (
	"online_shop/internal/domain" // Role enumeration

	"github.com/gin-gonic/gin" // Gin web framework
)

const identityKey = "identity" // Gin context key

// Identity is the authenticated caller
type Identity struct {
	UserID uint
	Email  string
	Role   domain.Role
}

// IsAdmin reports whether the caller holds the ADMIN role
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == domain.RoleAdmin
}

// HasRole reports whether the caller's role is one of roles
func (id *Identity) HasRole(roles ...domain.Role) bool {
	if id == nil {
		return false
	}
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// CanAccess is the ownership gate: the owner or any admin
func CanAccess(id *Identity, ownerID uint) bool {
	if id == nil {
		return false
	}
	return id.UserID == ownerID || id.IsAdmin()
}

// SetIdentity attaches the caller to the request
func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
	c.Set("userID", id.UserID) // Kept for log fields
}

// FromContext returns the caller, or nil for anonymous requests
func FromContext(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
