// Package apperr holds the error taxonomy shared by services and HTTP handlers.
package apperr

import (
	"errors"   // Error inspection
	"fmt"      // Message formatting
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM sentinel errors
)

// Kind classifies an error for the caller
type Kind int

const (
	KindInternal        Kind = iota // Unexpected storage or runtime failure
	KindBadRequest                  // Malformed or invalid input
	KindUnauthorized                // Missing, invalid or expired token
	KindForbidden                   // Authenticated but not allowed
	KindNotFound                    // Referenced entity absent
	KindTooManyRequests             // Rate limit exceeded
)

// Status maps a kind to its HTTP status code
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error
type Error struct {
	Kind    Kind   // Error class
	Message string // Human readable message, safe to show to clients
	Details any    // Optional machine readable details (e.g. offending field)
	Err     error  // Wrapped cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithField names the offending request field
func (e *Error) WithField(field string) *Error {
	e.Details = gin.H{"field": field}
	return e
}

// WithDetails attaches arbitrary details
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return newError(KindBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func TooManyRequests(format string, args ...any) *Error {
	return newError(KindTooManyRequests, format, args...)
}

// Internal wraps an unexpected failure under a client safe message
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Wrap classifies err. Already classified errors pass through untouched;
// duplicate keys become BadRequest, missing records NotFound, everything else Internal.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindBadRequest, Message: message + ": already exists", Err: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: message + ": not found", Err: err}
	}
	return Internal(err, message)
}

// KindOf reports the kind of err, KindInternal for unclassified errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Body is the error part of the response envelope
type Body struct {
	Status  int    `json:"status"`            // HTTP status code
	Message string `json:"message"`           // Human readable message
	Details any    `json:"details,omitempty"` // Optional details
}

// Envelope is the uniform error response
type Envelope struct {
	Error Body `json:"error"`
}

// Respond aborts the request with the error envelope and writes one log entry
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal(err, "Internal server error")
	}
	status := appErr.Kind.Status()
	fields := logrus.Fields{
		"method":     c.Request.Method,         // HTTP method
		"path":       c.Request.URL.Path,       // Request path
		"status":     status,                   // Response status
		"request_id": c.GetString("requestID"), // Correlation id set by middleware
		"error":      err.Error(),              // Full error including cause
	}
	if status >= http.StatusInternalServerError {
		logrus.WithFields(fields).Error("Request failed")
	} else {
		logrus.WithFields(fields).Warn("Request rejected")
	}
	c.AbortWithStatusJSON(status, Envelope{Error: Body{
		Status:  status,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}
