package utils

import "os"

// ParseWithFallback reads an environment variable, treating unset and empty
// the same way.
func ParseWithFallback(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}
