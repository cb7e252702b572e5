package api

import (
	"encoding/json" // Numeric ids
	"net/http"      // HTTP status codes

	"online_shop/internal/apperr"  // Error envelope
	"online_shop/internal/auth"    // Caller identity
	"online_shop/internal/domain"  // Importing domain models
	"online_shop/internal/service" // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for changing an order status
type UpdateOrderStatusRequest struct {
	OrderID json.Number `json:"orderId" binding:"required"` // Order to update
	Status  string      `json:"status" binding:"required"`  // New status
}

// totalPages is the number of pages of pageSize needed for total rows
func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}

// ListUsersHandler returns all users, paginated
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c) // Page parameters
		res, err := users.List(c.Request.Context(), page, pageSize)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users":       res.Users,                           // List of users
			"page":        res.Page,                            // Current page
			"page_size":   res.PageSize,                        // Page size
			"total":       res.Total,                           // Total number of users
			"total_pages": totalPages(res.Total, res.PageSize), // Total pages
		})
	}
}

// ListOrdersHandler returns every order with its owner, newest first
func ListOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c) // Page parameters
		res, err := orders.ListAll(c.Request.Context(), auth.FromContext(c), page, pageSize)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orders":      res.Orders,                          // List of orders
			"page":        res.Page,                            // Current page
			"page_size":   res.PageSize,                        // Page size
			"total":       res.Total,                           // Total number of orders
			"total_pages": totalPages(res.Total, res.PageSize), // Total pages
		})
	}
}

// UpdateOrderStatusHandler sets the status of an order
func UpdateOrderStatusHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		orderID, ok := bodyID(c, req.OrderID, "orderId")
		if !ok {
			return
		}
		order, err := orders.UpdateStatus(c.Request.Context(), auth.FromContext(c), orderID, domain.OrderStatus(req.Status))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
	}
}

// DeleteOrderHandler removes an order and its lines
func DeleteOrderHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := orders.Delete(c.Request.Context(), auth.FromContext(c), id); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
	}
}
