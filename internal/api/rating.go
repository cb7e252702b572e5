package api

import (
	"encoding/json" // Numeric ids
	"net/http"      // HTTP status codes

	"online_shop/internal/apperr"  // Error envelope
	"online_shop/internal/auth"    // Caller identity
	"online_shop/internal/service" // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for rating a device
type RateDeviceRequest struct {
	DeviceID json.Number `json:"deviceId" binding:"required"` // Rated device
	Rate     int         `json:"rate"`                        // 1 to 5
	Comment  string      `json:"comment"`                     // Optional
}

// RateDeviceHandler creates or overwrites the caller's rating of a device
func RateDeviceHandler(ratings *service.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RateDeviceRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		deviceID, ok := bodyID(c, req.DeviceID, "deviceId")
		if !ok {
			return
		}
		res, err := ratings.Rate(c.Request.Context(), auth.FromContext(c).UserID, deviceID, req.Rate, req.Comment)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
