package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// On production the environment variables are set directly.
	if err := godotenv.Load(); err != nil {
		// .env file not found is not an error - variables may already
		// be present in the environment.
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - application cannot function without these
	if os.Getenv("API_BASE_URL") == "" && os.Getenv("MOCK_API") == "" {
		missing = append(missing, "API_BASE_URL")
	}
	if os.Getenv("MOCK_API") != "" && os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	switch GetEnv("STORAGE_BACKEND", "file") {
	case "redis":
		if os.Getenv("REDIS_ADDR") == "" {
			log.Println("WARNING: REDIS_ADDR not set - defaulting to localhost:6379")
		}
	case "postgres":
		if os.Getenv("DATABASE_URL") == "" {
			log.Println("WARNING: DATABASE_URL not set - using local defaults")
		}
	}
	if os.Getenv("PAYMENT_CLIENT_ID") == "" {
		log.Println("WARNING: PAYMENT_CLIENT_ID not set - checkout payment capture will fail")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
