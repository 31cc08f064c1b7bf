package utils

import (
	"os"

	"github.com/google/uuid"
)

// IsValidUUID reports whether u parses as a UUID.
func IsValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}

// GetEnvVariable reads an environment variable with a fallback.
func GetEnvVariable(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
