package api

import (
	"bytes"             // Request bodies
	"encoding/json"     // JSON encoding/decoding
	"fmt"               // Paths
	"net/http"          // Status codes
	"net/http/httptest" // Recorder
	"strings"           // Name sanitizing
	"testing"           // Go's testing package
	"time"              // Token lifetime

	"online_shop/internal/db"         // In-memory database
	"online_shop/internal/metrics"    // Shop counters
	"online_shop/internal/repository" // Persistence
	"online_shop/internal/service"    // Use cases
	"online_shop/internal/utils"      // Tokens and cache

	"github.com/gin-gonic/gin"            // Gin web framework
	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // Fatal assertions
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn, err := db.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := repository.NewGormStore(conn)
	loader := utils.NewLoader(utils.NoopCache{}, 0)
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	m := metrics.New()
	return NewRouter(Deps{
		Tokens:   tokens,
		Metrics:  m,
		Users:    service.NewUserService(store, tokens, loader, "bootstrap"),
		Baskets:  service.NewBasketService(store, m),
		Checkout: service.NewCheckoutService(store, m),
		Orders:   service.NewOrderService(store, m),
		Ratings:  service.NewRatingService(store, loader),
		Catalog:  service.NewCatalogService(store, loader),
		Brands:   service.NewBrandService(store, loader),
		Types:    service.NewTypeService(store, loader),
	})
}

// call sends a JSON request and decodes the JSON response into a map
func call(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

// adminToken bootstraps the first admin and returns its token
func adminToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	code, res := call(t, r, http.MethodPost, "/api/user/init-admin", "", gin.H{"email": "admin@shop.test", "password": "adminpass", "secret": "bootstrap"})
	require.Equal(t, http.StatusCreated, code)
	return res["token"].(string)
}

// seedDevice creates a brand, a type and a device through the admin API
func seedDevice(t *testing.T, r *gin.Engine, admin string, price int) uint {
	t.Helper()
	code, brand := call(t, r, http.MethodPost, "/api/brand", admin, gin.H{"name": "Acme"})
	require.Equal(t, http.StatusCreated, code)
	code, typ := call(t, r, http.MethodPost, "/api/type", admin, gin.H{"name": "Phones"})
	require.Equal(t, http.StatusCreated, code)
	code, device := call(t, r, http.MethodPost, "/api/device", admin, gin.H{
		"name":    "Phone",
		"price":   price,
		"brandId": brand["id"],
		"typeId":  typ["id"],
		"img":     "phone.jpg",
		"info":    []gin.H{{"title": "Color", "description": "Black"}},
	})
	require.Equal(t, http.StatusCreated, code)
	return uint(device["id"].(float64))
}

func TestShoppingFlow(t *testing.T) {
	r := newTestRouter(t)
	admin := adminToken(t, r)
	deviceID := seedDevice(t, r, admin, 100)

	code, res := call(t, r, http.MethodPost, "/api/user/register", "", gin.H{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, code)
	token := res["token"].(string)
	require.NotEmpty(t, token)

	for i := 0; i < 2; i++ {
		code, res = call(t, r, http.MethodPost, "/api/basket", token, gin.H{"deviceId": deviceID})
		require.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, "Device Phone added to basket", res["message"])
	devices := res["devices"].([]any)
	require.Len(t, devices, 1)
	assert.Equal(t, float64(2), devices[0].(map[string]any)["quantity"])

	code, res = call(t, r, http.MethodPost, "/api/basket/checkout", token, gin.H{"address": "221B Baker Street"})
	require.Equal(t, http.StatusCreated, code)
	order := res["order"].(map[string]any)
	assert.Equal(t, float64(200), order["total"])
	assert.Equal(t, "pending", order["status"])

	req := httptest.NewRequest(http.MethodGet, "/api/basket", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	orderPath := fmt.Sprintf("/api/order/%v", order["id"])
	code, _ = call(t, r, http.MethodGet, orderPath, token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestOrderStatusRequiresAdmin(t *testing.T) {
	r := newTestRouter(t)
	admin := adminToken(t, r)
	deviceID := seedDevice(t, r, admin, 100)

	_, res := call(t, r, http.MethodPost, "/api/user/register", "", gin.H{"email": "a@b.com", "password": "secret1"})
	token := res["token"].(string)
	code, _ := call(t, r, http.MethodPost, "/api/basket", token, gin.H{"deviceId": deviceID})
	require.Equal(t, http.StatusOK, code)
	code, res = call(t, r, http.MethodPost, "/api/basket/checkout", token, gin.H{"address": "221B Baker Street"})
	require.Equal(t, http.StatusCreated, code)
	orderID := res["order"].(map[string]any)["id"]

	body := gin.H{"orderId": orderID, "status": "shipped"}
	code, res = call(t, r, http.MethodPut, "/api/order/status", token, body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, float64(403), res["error"].(map[string]any)["status"])

	code, res = call(t, r, http.MethodPut, "/api/order/status", admin, body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "shipped", res["order"].(map[string]any)["status"])

	code, _ = call(t, r, http.MethodPut, "/api/order/status", admin, gin.H{"orderId": orderID, "status": "lost"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCatalogAccess(t *testing.T) {
	r := newTestRouter(t)

	code, res := call(t, r, http.MethodGet, "/api/device", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), res["count"])

	code, res = call(t, r, http.MethodPost, "/api/device", "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, float64(401), res["error"].(map[string]any)["status"])

	code, res = call(t, r, http.MethodPost, "/api/brand", "", gin.H{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized", res["error"].(map[string]any)["message"])

	code, _ = call(t, r, http.MethodGet, "/api/device/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, http.MethodGet, "/api/basket", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, r, http.MethodGet, "/api/basket", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	code, res := call(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", res["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shop_http_requests_total")
}
