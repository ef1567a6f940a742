package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL        = "http://localhost:5000/api"
	DefaultHTTPTimeout   = 12 * time.Second
	DefaultRedirectDelay = 2 * time.Second
	DefaultHistoryTTL    = 10 * time.Minute
)

// Config holds the client's runtime settings.
type Config struct {
	APIURL        string
	HTTPTimeout   time.Duration
	RedirectDelay time.Duration
	HistoryTTL    time.Duration
	LogLevel      string
	LogFile       string
}

// Load reads the optional env file and then the process environment.
// A missing default .env is fine; a missing explicit file is an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		APIURL:        strings.TrimRight(getEnv("CINE_API_URL", DefaultAPIURL), "/"),
		HTTPTimeout:   getDurationEnv("CINE_HTTP_TIMEOUT", DefaultHTTPTimeout),
		RedirectDelay: getDurationEnv("CINE_REDIRECT_DELAY", DefaultRedirectDelay),
		HistoryTTL:    getDurationEnv("CINE_HISTORY_TTL", DefaultHistoryTTL),
		LogLevel:      getEnv("CINE_LOG_LEVEL", "info"),
		LogFile:       os.Getenv("CINE_LOG_FILE"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil && duration >= 0 {
			return duration
		}
	}
	return fallback
}
