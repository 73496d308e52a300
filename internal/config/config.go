package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ClientConfig holds everything the client front end needs to reach the
// backend and persist its session.
type ClientConfig struct {
	APIBaseURL  string
	SessionFile string
	HTTPTimeout time.Duration
}

// LoadClientConfig loads client configuration from environment variables
func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{
		APIBaseURL:  getEnv("LIS_API_BASE_URL", "http://localhost:8080"),
		SessionFile: getEnv("LIS_SESSION_FILE", "./data/session.json"),
		HTTPTimeout: time.Duration(getEnvInt("LIS_HTTP_TIMEOUT_SEC", 15)) * time.Second,
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("LIS_API_BASE_URL must not be empty")
	}
	if cfg.SessionFile == "" {
		return nil, fmt.Errorf("LIS_SESSION_FILE must not be empty")
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("LIS_HTTP_TIMEOUT_SEC must be > 0")
	}
	return cfg, nil
}

// ServerConfig holds configuration for the local stand-in backend.
type ServerConfig struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
}

// LoadServerConfig loads stand-in backend configuration from environment variables
func LoadServerConfig() (*ServerConfig, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	cfg := &ServerConfig{
		Port:      getEnv("SERVER_PORT", "8080"),
		JWTSecret: secret,
		TokenTTL:  time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 1)) * time.Hour,
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be > 0")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
