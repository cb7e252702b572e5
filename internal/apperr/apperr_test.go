package apperr

import (
	"encoding/json"     // Response decoding
	"errors"            // Error values
	"fmt"               // Wrapping
	"net/http"          // Status codes
	"net/http/httptest" // Recorder
	"testing"           // Go's testing package

	"github.com/gin-gonic/gin"            // Gin web framework
	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // Fatal assertions
	"gorm.io/gorm"                        // Sentinel errors
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindBadRequest.Status())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthorized.Status())
	assert.Equal(t, http.StatusForbidden, KindForbidden.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusTooManyRequests, KindTooManyRequests.Status())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "x"))

	forbidden := Forbidden("Access denied")
	assert.Same(t, forbidden, Wrap(fmt.Errorf("tx: %w", forbidden), "Failed"))

	assert.Equal(t, KindBadRequest, KindOf(Wrap(gorm.ErrDuplicatedKey, "Failed to create")))
	assert.Equal(t, KindNotFound, KindOf(Wrap(gorm.ErrRecordNotFound, "Failed to load")))

	cause := errors.New("connection reset")
	err := Wrap(cause, "Failed to load")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(cause))
}

func TestRespondWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		details any
	}{
		{"bad request with field", BadRequest("Invalid device ID").WithField("deviceId"), http.StatusBadRequest, "Invalid device ID", map[string]any{"field": "deviceId"}},
		{"not found", NotFound("Order %d not found", 3), http.StatusNotFound, "Order 3 not found", nil},
		{"internal hides cause", errors.New("dial tcp: refused"), http.StatusInternalServerError, "Internal server error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

			Respond(c, tt.err)

			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Error struct {
					Status  int    `json:"status"`
					Message string `json:"message"`
					Details any    `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Error.Status)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Equal(t, tt.details, body.Error.Details)
		})
	}
}
