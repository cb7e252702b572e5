package api

import (
	"encoding/json" // Numeric ids
	"net/http"      // HTTP status codes

	"online_shop/internal/apperr"  // Error envelope
	"online_shop/internal/auth"    // Caller identity
	"online_shop/internal/service" // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for adding a device to the basket
type AddToBasketRequest struct {
	DeviceID json.Number `json:"deviceId" binding:"required"` // Device to add
}

// Request struct for checkout
type CheckoutRequest struct {
	Address string `json:"address"` // Delivery address
}

// GetBasketHandler returns the caller's basket
func GetBasketHandler(baskets *service.BasketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.FromContext(c) // Authenticated caller
		items, err := baskets.Get(c.Request.Context(), id.UserID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// AddToBasketHandler adds one unit of a device to the caller's basket
func AddToBasketHandler(baskets *service.BasketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddToBasketRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		deviceID, ok := bodyID(c, req.DeviceID, "deviceId")
		if !ok {
			return
		}
		items, msg, err := baskets.Add(c.Request.Context(), auth.FromContext(c).UserID, deviceID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "devices": items})
	}
}

// RemoveFromBasketHandler removes one unit of a device from the caller's basket
func RemoveFromBasketHandler(baskets *service.BasketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, ok := pathID(c, "deviceId")
		if !ok {
			return
		}
		items, msg, err := baskets.Remove(c.Request.Context(), auth.FromContext(c).UserID, deviceID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "devices": items})
	}
}

// ClearBasketHandler empties the caller's basket
func ClearBasketHandler(baskets *service.BasketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := baskets.Clear(c.Request.Context(), auth.FromContext(c).UserID); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Basket cleared", "devices": []service.BasketItem{}})
	}
}

// CheckoutHandler turns the caller's basket into an order
func CheckoutHandler(checkout *service.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		order, err := checkout.Checkout(c.Request.Context(), auth.FromContext(c).UserID, req.Address)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Checkout successful", "order": order})
	}
}
