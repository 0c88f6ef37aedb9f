package timeutil

import (
	"strings"
	"time"
)

// ParseDurationOrDefault parses a config duration and returns def on empty, invalid or negative values.
func ParseDurationOrDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
