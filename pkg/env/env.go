package env

import (
	"os"
	"strconv"
	"strings"
)

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// Bool parses a boolean variable. Any set but unparsable value counts as true,
// so NO_COLOR=yes behaves like NO_COLOR=1.
func Bool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
