package utils

import (
	"errors"  // Error values
	"strconv" // Subject formatting
	"time"    // Time for token expiration

	"online_shop/internal/domain" // Role enumeration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidClaims is returned for well-signed tokens carrying unusable claims
var ErrInvalidClaims = errors.New("token carries invalid claims")

// JWT Claims
type Claims struct {
	UserID               uint        `json:"id"`    // User ID
	Email                string      `json:"email"` // User email
	Role                 domain.Role `json:"role"`  // User role
	jwt.RegisteredClaims             // Standard JWT claims
}

// TokenManager signs and verifies HS256 bearer tokens
type TokenManager struct {
	secret []byte        // HMAC key
	ttl    time.Duration // Token lifetime
}

// NewTokenManager creates a TokenManager; ttl defaults to 24 hours
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Sign creates a token embedding the user's id, email and role
func (m *TokenManager) Sign(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,    // User ID
		Email:  user.Email, // User email
		Role:   user.Role,  // User role
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10), // Token subject
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),      // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),                 // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(m.secret)                        // Sign the token with the secret
}

// Parse validates a token string and returns its claims
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.UserID == 0 || !claims.Role.Valid() {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
