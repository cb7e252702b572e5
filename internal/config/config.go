package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBDriver        string        // Database driver: mysql or sqlite
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	DBPath          string        // SQLite database file
	JWTSecret       string        // JWT secret key
	JWTTTL          time.Duration // Token lifetime
	RedisAddr       string        // Redis server address, empty disables caching and rate limiting
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	CacheTTL        time.Duration // Catalog cache lifetime
	LoginRate       int           // Login and registration attempts per minute per client
	AdminInitSecret string        // Out-of-band secret for the one-time admin bootstrap
	CORSOrigins     []string      // Allowed browser origins
	LogLevel        string        // Logrus level
	LogFile         string        // Optional rotating log file
	IsProd          bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", "5000"),               // Application port
		DBDriver:        getEnv("DB_DRIVER", "mysql"),             // Database driver
		DBUser:          os.Getenv("DB_USER"),                     // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                 // Database password
		DBHost:          getEnv("DB_HOST", "127.0.0.1"),           // Database host
		DBPort:          getEnv("DB_PORT", "3306"),                // Database port
		DBName:          getEnv("DB_NAME", "online_shop"),         // Database name
		DBPath:          getEnv("DB_PATH", "shop.db"),             // SQLite file
		JWTSecret:       os.Getenv("JWT_SECRET"),                  // JWT secret key
		JWTTTL:          getDuration("JWT_TTL", 24*time.Hour),     // Token lifetime
		RedisAddr:       os.Getenv("REDIS_ADDR"),                  // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                  // Redis password
		RedisDB:         getInt("REDIS_DB", 0),                    // Redis database number
		CacheTTL:        getDuration("CACHE_TTL", 60*time.Second), // Cache lifetime
		LoginRate:       getInt("LOGIN_RATE_PER_MINUTE", 10),      // Auth attempts per minute
		AdminInitSecret: os.Getenv("ADMIN_INIT_SECRET"),           // Bootstrap secret
		CORSOrigins:     getList("CORS_ORIGINS", "http://localhost:5173"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),    // Log level
		LogFile:         os.Getenv("LOG_FILE"),          // Log file
		IsProd:          os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
