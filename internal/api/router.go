package api

import (
	"net/http" // HTTP status codes
	"time"     // CORS preflight cache

	"online_shop/internal/domain"     // Role enumeration
	"online_shop/internal/metrics"    // Prometheus collectors
	"online_shop/internal/middleware" // Custom package for middleware
	"online_shop/internal/service"    // Use cases
	"online_shop/internal/utils"      // Token verification

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client for rate limiting
)

// Deps carries everything the HTTP layer needs
type Deps struct {
	Tokens      *utils.TokenManager
	Metrics     *metrics.Metrics
	Redis       *redis.Client // Optional; nil disables rate limiting
	AuthRate    int           // Login and registration attempts per minute per client
	CORSOrigins []string

	Users    *service.UserService
	Baskets  *service.BasketService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Ratings  *service.RatingService
	Catalog  *service.CatalogService
	Brands   *service.NamedService[domain.Brand]
	Types    *service.NamedService[domain.DeviceType]
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), d.Metrics.Middleware())
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  d.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }) // Liveness probe
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))                                        // Prometheus scrape endpoint

	api := r.Group("/api")
	api.Use(middleware.Authenticate(d.Tokens)) // Resolve the bearer token on every API route
	authed := middleware.RequireAuth()
	admin := middleware.RequireRole(domain.RoleAdmin)
	limited := middleware.RateLimit(d.Redis, d.AuthRate)

	// User routes
	user := api.Group("/user")
	user.POST("/register", limited, RegisterHandler(d.Users))    // Registration endpoint
	user.POST("/login", limited, LoginHandler(d.Users))          // Login endpoint
	user.POST("/init-admin", limited, InitAdminHandler(d.Users)) // First admin bootstrap
	user.GET("/auth", authed, RefreshHandler(d.Users))           // Token refresh
	user.GET("", admin, ListUsersHandler(d.Users))               // List users
	user.GET("/:id", authed, GetUserHandler(d.Users))            // Profile
	user.PUT("/:id", authed, UpdateUserHandler(d.Users))         // Profile update
	user.DELETE("/:id", authed, DeleteUserHandler(d.Users))      // Account deletion

	// Basket routes
	basket := api.Group("/basket", authed)
	basket.GET("", GetBasketHandler(d.Baskets))                     // Basket contents
	basket.POST("", AddToBasketHandler(d.Baskets))                  // Add one unit
	basket.DELETE("", ClearBasketHandler(d.Baskets))                // Empty the basket
	basket.DELETE("/:deviceId", RemoveFromBasketHandler(d.Baskets)) // Remove one unit
	basket.POST("/checkout", CheckoutHandler(d.Checkout))           // Place an order

	// Order routes
	order := api.Group("/order", authed)
	order.GET("", ListMyOrdersHandler(d.Orders))                    // Own orders
	order.GET("/all", admin, ListOrdersHandler(d.Orders))           // All orders
	order.PUT("/status", admin, UpdateOrderStatusHandler(d.Orders)) // Status change
	order.GET("/:id", GetOrderHandler(d.Orders))                    // One order
	order.DELETE("/:id", admin, DeleteOrderHandler(d.Orders))       // Order deletion

	api.POST("/rating", authed, RateDeviceHandler(d.Ratings)) // Rate a device

	// Catalog routes: public reads, admin writes
	device := api.Group("/device")
	device.GET("", ListDevicesHandler(d.Catalog))
	device.GET("/:id", GetDeviceHandler(d.Catalog))
	device.POST("", admin, CreateDeviceHandler(d.Catalog))
	device.PUT("/:id", admin, UpdateDeviceHandler(d.Catalog))
	device.DELETE("/:id", admin, DeleteDeviceHandler(d.Catalog))

	brand := api.Group("/brand")
	brand.GET("", ListNamedHandler(d.Brands))
	brand.GET("/:id", GetNamedHandler(d.Brands))
	brand.POST("", admin, CreateNamedHandler(d.Brands))
	brand.PUT("/:id", admin, RenameNamedHandler(d.Brands))
	brand.DELETE("/:id", admin, DeleteNamedHandler(d.Brands))

	deviceType := api.Group("/type")
	deviceType.GET("", ListNamedHandler(d.Types))
	deviceType.GET("/:id", GetNamedHandler(d.Types))
	deviceType.POST("", admin, CreateNamedHandler(d.Types))
	deviceType.PUT("/:id", admin, RenameNamedHandler(d.Types))
	deviceType.DELETE("/:id", admin, DeleteNamedHandler(d.Types))

	return r
}
