package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config aggregates application configuration values loaded from environment
// variables. One struct serves both binaries; the storeserver fields are
// ignored by the client and vice versa.
type Config struct {
	Env          string
	StoreBaseURL string
	HTTPTimeout  time.Duration
	SessionFile  string

	// storeserver
	HTTPAddr string
	MongoURI string
	MongoDB  string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:          getEnv("APP_ENV", "dev"),
		StoreBaseURL: getEnv("STORE_BASE_URL", "http://localhost:4000"),
		SessionFile:  getEnv("SESSION_FILE", defaultSessionFile()),
		HTTPAddr:     getEnv("HTTP_ADDR", ":4000"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getEnv("MONGO_DB", "avtoelon"),
	}
	timeout, err := parseDurationEnv("HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTPTimeout = timeout
	if cfg.StoreBaseURL == "" {
		return Config{}, fmt.Errorf("STORE_BASE_URL is required")
	}
	return cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".avtoelon", "session.json")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
