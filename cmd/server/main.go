package main

import (
	"context" // context package is needed for Redis operations
	"time"    // Redis ping timeout

	"online_shop/internal/api"        // Custom package for API handlers
	"online_shop/internal/config"     // Custom package for configuration
	"online_shop/internal/db"         // Database connection and migrations
	"online_shop/internal/metrics"    // Prometheus collectors
	"online_shop/internal/repository" // Persistence
	"online_shop/internal/service"    // Use cases
	"online_shop/internal/utils"      // Logger, tokens and cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	utils.SetupLogger(cfg.LogLevel, cfg.LogFile, cfg.IsProd)

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database and bring the schema up to date
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	// Setup Redis client when configured; without it caching and rate limiting are off
	var redisClient *redis.Client
	var cache utils.Cache = utils.NoopCache{}
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err = redisClient.Ping(ctx).Result()
		cancel()
		if err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cache = utils.NewRedisCache(redisClient)
	} else {
		logrus.Warn("REDIS_ADDR not set: catalog cache and rate limiting disabled")
	}

	// Wire services
	store := repository.NewGormStore(gdb)
	loader := utils.NewLoader(cache, cfg.CacheTTL)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	m := metrics.New()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		Tokens:      tokens,
		Metrics:     m,
		Redis:       redisClient,
		AuthRate:    cfg.LoginRate,
		CORSOrigins: cfg.CORSOrigins,
		Users:       service.NewUserService(store, tokens, loader, cfg.AdminInitSecret),
		Baskets:     service.NewBasketService(store, m),
		Checkout:    service.NewCheckoutService(store, m),
		Orders:      service.NewOrderService(store, m),
		Ratings:     service.NewRatingService(store, loader),
		Catalog:     service.NewCatalogService(store, loader),
		Brands:      service.NewBrandService(store, loader),
		Types:       service.NewTypeService(store, loader),
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Infof("Server running on %s", cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {  // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
