package api

import (
	"net/http" // HTTP status codes

	"online_shop/internal/apperr"     // Error envelope
	"online_shop/internal/repository" // Named catalog models
	"online_shop/internal/service"    // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for creating or renaming a brand or type
type NameRequest struct {
	Name string `json:"name"` // Unique name
}

// ListDevicesHandler returns a filtered page of devices as {count, rows}
func ListDevicesHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		typeID, ok := queryUint(c, "typeId")
		if !ok {
			return
		}
		brandID, ok := queryUint(c, "brandId")
		if !ok {
			return
		}
		limit, ok := queryUint(c, "limit")
		if !ok {
			return
		}
		page, ok := queryUint(c, "page")
		if !ok {
			return
		}
		res, err := catalog.ListDevices(c.Request.Context(), typeID, brandID, int(limit), int(page))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// GetDeviceHandler returns one device with its characteristics
func GetDeviceHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		device, err := catalog.GetDevice(c.Request.Context(), id)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, device)
	}
}

// CreateDeviceHandler adds a device
func CreateDeviceHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.DeviceInput // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		device, err := catalog.CreateDevice(c.Request.Context(), req)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, device)
	}
}

// UpdateDeviceHandler applies a partial device update
func UpdateDeviceHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var patch service.DevicePatch // Bind JSON request to struct
		if !bindJSON(c, &patch) {
			return
		}
		device, err := catalog.UpdateDevice(c.Request.Context(), id, patch)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, device)
	}
}

// DeleteDeviceHandler removes a device no order refers to
func DeleteDeviceHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := catalog.DeleteDevice(c.Request.Context(), id); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Device deleted"})
	}
}

// ListNamedHandler returns all brands or types
func ListNamedHandler[T repository.Named](svc *service.NamedService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GetNamedHandler returns one brand or type
func GetNamedHandler[T repository.Named](svc *service.NamedService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		item, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// CreateNamedHandler adds a brand or type
func CreateNamedHandler[T repository.Named](svc *service.NamedService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NameRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		item, err := svc.Create(c.Request.Context(), req.Name)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// RenameNamedHandler renames a brand or type
func RenameNamedHandler[T repository.Named](svc *service.NamedService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req NameRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		item, err := svc.Rename(c.Request.Context(), id, req.Name)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DeleteNamedHandler removes a brand or type no device uses
func DeleteNamedHandler[T repository.Named](svc *service.NamedService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
	}
}
