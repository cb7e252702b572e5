package api

import (
	"net/http" // HTTP status codes

	"online_shop/internal/apperr"  // Error envelope
	"online_shop/internal/auth"    // Caller identity
	"online_shop/internal/service" // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListMyOrdersHandler returns the caller's orders
func ListMyOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := orders.ListForUser(c.Request.Context(), auth.FromContext(c).UserID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// GetOrderHandler returns one order to its owner or an admin
func GetOrderHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		view, err := orders.Get(c.Request.Context(), auth.FromContext(c), id)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
