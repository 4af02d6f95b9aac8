package config

import "os"

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// EnvEnabled reports whether the variable is set to a truthy value
// ("1", "true", "yes" or "on").
func EnvEnabled(key string) bool {
	switch GetEnv(key, "") {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	}
	return false
}
