// Package config loads application configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	AppPort           string // HTTP listen port
	DBPath            string // SQLite database file path
	ProviderAPIURL    string // identity provider REST API base URL
	ProviderSecretKey string // identity provider secret key for user lookups
	ParserURL         string // AI expense parser endpoint
	RedisAddr         string // Redis server address; empty disables caching
	RedisPass         string // Redis password
	RedisDB           int    // Redis database number
	IsProd            bool   // production mode
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:           getEnv("APP_PORT", "8000"),
		DBPath:            getEnv("DB_PATH", "./data/spendsplit.db"),
		ProviderAPIURL:    getEnv("PROVIDER_API_URL", "https://api.clerk.com/v1"),
		ProviderSecretKey: os.Getenv("PROVIDER_SECRET_KEY"),
		ParserURL:         os.Getenv("PARSER_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPass:         os.Getenv("REDIS_PASS"),
		RedisDB:           redisDB,
		IsProd:            os.Getenv("IS_PROD") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
