package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Remote backend (persistence API)
	BackendBaseURL string
	BackendTimeout time.Duration

	// Video host
	VideoUploadTimeout time.Duration

	// Redis
	EnableRedis bool
	RedisURL    string

	// JWT (shared with the backend that issues tokens)
	JWTSecret string

	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Upload limits
	MaxVideoSize    int64
	MaxResourceSize int64
	MaxImageSize    int64

	// Snapshot refresher
	RefreshInterval time.Duration

	// Features
	EnableCache   bool
	EnableMetrics bool
	EnableRefresh bool
}

func New() *Config {
	c := &Config{
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:6572/api"),
		BackendTimeout: getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),

		VideoUploadTimeout: getEnvAsDuration("VIDEO_UPLOAD_TIMEOUT", 15*time.Minute),

		EnableRedis: getEnvAsBool("ENABLE_REDIS", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		JWTSecret: getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),

		MaxVideoSize:    getEnvAsInt64("MAX_VIDEO_SIZE", 1024*1024*1024),
		MaxResourceSize: getEnvAsInt64("MAX_RESOURCE_SIZE", 25*1024*1024),
		MaxImageSize:    getEnvAsInt64("MAX_IMAGE_SIZE", 10*1024*1024),

		RefreshInterval: getEnvAsDuration("REFRESH_INTERVAL", 5*time.Minute),

		EnableCache:   getEnvAsBool("ENABLE_CACHE", true),
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		EnableRefresh: getEnvAsBool("ENABLE_REFRESH", true),
	}

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int64
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
