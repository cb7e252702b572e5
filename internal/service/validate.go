package service

import (
	"regexp"  // Email format
	"strconv" // ID parsing
	"strings" // Normalization

	"online_shop/internal/apperr" // Error taxonomy
)

const (
	minAddressLen  = 5   // Shortest accepted delivery address, after trimming
	maxAddressLen  = 255 // Column size
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt ignores anything longer
	maxCommentLen  = 500
	maxNameLen     = 50 // Brand and type names
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParseID parses a positive integer id, naming field on failure
func ParseID(raw, field string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest("Invalid %s", field).WithField(field)
	}
	return uint(id), nil
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return apperr.BadRequest("Email and password are required").WithDetails(map[string]any{"fields": []string{"email", "password"}})
	}
	if !emailPattern.MatchString(email) {
		return apperr.BadRequest("Invalid email format").WithField("email")
	}
	return validatePassword(password)
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return apperr.BadRequest("Password must be %d-%d characters", minPasswordLen, maxPasswordLen).WithField("password")
	}
	return nil
}

// normalizeAddress trims the address and checks its length
func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if len(address) < minAddressLen {
		return "", apperr.BadRequest("Address must be at least %d characters", minAddressLen).WithField("address")
	}
	if len(address) > maxAddressLen {
		return "", apperr.BadRequest("Address must not exceed %d characters", maxAddressLen).WithField("address")
	}
	return address, nil
}
