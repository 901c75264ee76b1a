// Package config resolves runtime settings from the environment, with
// sensible defaults for local development.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the server needs to start.
type Config struct {
	// Addr is the listen address for the frontend server.
	Addr string
	// APIURL is the base URL of the posting service.
	APIURL string
	// DataDir is where the session database lives.
	DataDir string
	// PollInterval is how often each session's feed refreshes in the
	// background. Zero disables polling.
	PollInterval time.Duration
	// SessionLifetime is how long an idle login survives.
	SessionLifetime time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Addr:            getEnv("CHAMELEON_ADDR", ":8080"),
		APIURL:          getEnv("CHAMELEON_API_URL", "http://localhost:3000"),
		DataDir:         getEnv("CHAMELEON_DATA_DIR", "./data"),
		PollInterval:    time.Duration(getEnvInt("CHAMELEON_POLL_SECONDS", 30)) * time.Second,
		SessionLifetime: time.Duration(getEnvInt("CHAMELEON_SESSION_HOURS", 12)) * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
