package main

import (
	"log"
	"os"
	"strconv"
	"time"
)

// config holds process settings read from the environment.
type config struct {
	Port            string
	AllowedOrigins  string
	ActivityDBPath  string
	DBDebug         bool
	ShutdownTimeout time.Duration
	ActivityLimit   int
}

// loadConfig reads the configuration from environment variables.
func loadConfig() config {
	return config{
		Port:            getEnv("PORT", "3000"),
		AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080"),
		ActivityDBPath:  getEnv("ACTIVITY_DB_PATH", "file::memory:?cache=shared"),
		DBDebug:         getEnvBool("DB_DEBUG", false),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		ActivityLimit:   getEnvInt("ACTIVITY_LIMIT", 100),
	}
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as time.Duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
