package api

import (
	"encoding/json" // Numeric ids given as numbers or strings
	"strconv"       // String conversion

	"online_shop/internal/apperr"  // Error envelope
	"online_shop/internal/service" // ID parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// bindJSON binds the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperr.Respond(c, apperr.BadRequest("Invalid request").WithDetails(gin.H{"reason": err.Error()}))
		return false
	}
	return true
}

// pathID parses a positive id path parameter, answering 400 otherwise
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := service.ParseID(c.Param(name), name)
	if err != nil {
		apperr.Respond(c, err)
		return 0, false
	}
	return id, true
}

// bodyID parses a positive id sent as a JSON number or numeric string
func bodyID(c *gin.Context, raw json.Number, field string) (uint, bool) {
	id, err := service.ParseID(raw.String(), field)
	if err != nil {
		apperr.Respond(c, err)
		return 0, false
	}
	return id, true
}

// pagination reads page and page_size, defaulting to 1 and 20 and capping page_size at 100
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size
		}
	}
	return page, pageSize
}

// queryUint reads an optional non-negative integer query parameter
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.BadRequest("Invalid %s", name).WithField(name))
		return 0, false
	}
	return uint(v), true
}
