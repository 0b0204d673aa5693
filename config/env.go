package config

import (
	"os"
	"strings"
)

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

// Headless reports whether the browser should run without a visible window.
// Defaults to false so a first run can be watched before going unattended.
func Headless() bool {
	return strings.EqualFold(GetEnvOrDefault("RENDERBOT_HEADLESS", "false"), "true")
}

// ChromePath returns an explicit Chrome binary path, empty for auto-detect
func ChromePath() string {
	return GetEnvOrDefault("RENDERBOT_CHROME_PATH", "")
}
