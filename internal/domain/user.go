package domain

import "time"

// Role is the closed set of user roles
type Role string

const (
	RoleUser  Role = "USER"  // Regular customer
	RoleAdmin Role = "ADMIN" // Shop administrator
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                            // Primary key
	Email     string    `gorm:"size:191;uniqueIndex;not null" json:"email"`      // Unique, lower-cased email
	Password  string    `gorm:"not null" json:"-"`                               // Password digest
	Role      Role      `gorm:"size:16;not null;default:USER;index" json:"role"` // USER or ADMIN
	CreatedAt time.Time `json:"createdAt"`                                       // Registration time
	UpdatedAt time.Time `json:"updatedAt"`                                       // Last profile edit
}
