// Package config handles configuration loading for the account service.
package config

import (
	"log"
	"os"
	"time"
)

// Config holds all configuration for the account service.
type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	AuthProviderURL  string
	AuthProviderKey  string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	Port             string
	Environment      string
}

// Load reads configuration from environment variables. Missing required
// values are fatal: the process must not come up with broken invariants
// such as an absent signing secret.
func Load() *Config {
	return &Config{
		DBHost:           getEnvRequired("DB_HOST"),
		DBPort:           getEnvRequired("DB_PORT"),
		DBUser:           getEnvRequired("DB_USER"),
		DBPassword:       getEnvRequired("DB_PASSWORD"),
		DBName:           getEnvRequired("DB_NAME"),
		RedisHost:        getEnvRequired("REDIS_HOST"),
		RedisPort:        getEnvRequired("REDIS_PORT"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		AuthProviderURL:  getEnvRequired("AUTH_PROVIDER_URL"),
		AuthProviderKey:  getEnvRequired("AUTH_PROVIDER_KEY"),
		JWTSecret:        getEnvRequired("JWT_SECRET"),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),
		Port:             getEnv("PORT", "8085"),
		Environment:      getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
