// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Directory holding posts.json and categories.json
	DataDir string

	// Single admin credentials. The password is stored as a bcrypt hash;
	// the TOTP secret is optional and enables a second factor when set.
	AdminEmail        string
	AdminPasswordHash string
	AdminTOTPSecret   string

	// Valkey (Redis-compatible session and page-cache backend)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DataDir: envOrDefault("DATA_DIR", "data"),

		AdminEmail:        envOrDefault("ADMIN_EMAIL", "admin@inkpress.local"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTOTPSecret:   os.Getenv("ADMIN_TOTP_SECRET"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	if cfg.Env == "production" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH must be set in production")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey connection address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
