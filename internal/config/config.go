// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"primarycat/internal/models"
)

// devNonceSecret signs nonces when NONCE_SECRET is unset outside production.
const devNonceSecret = "primarycat-development-nonce-secret"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host    string `env:"APP_HOST" env-default:"0.0.0.0"`
	Port    string `env:"APP_PORT" env-default:"8080"`
	Env     string `env:"APP_ENV" env-default:"development"` // "development", "production", "testing"
	SiteURL string `env:"SITE_URL" env-default:"http://localhost:8080"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" env-default:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" env-default:"5432"`
	DBUser     string `env:"POSTGRES_USER" env-default:"primarycat"`
	DBPassword string `env:"POSTGRES_PASSWORD" env-default:"changeme"`
	DBName     string `env:"POSTGRES_DB" env-default:"primarycat"`

	// Valkey (Redis-compatible cache)
	ValkeyHost     string `env:"VALKEY_HOST" env-default:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" env-default:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// Admin sessions
	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"24h"`

	// Anti-forgery nonces
	NonceSecret   string        `env:"NONCE_SECRET"`
	NonceLifetime time.Duration `env:"NONCE_LIFETIME" env-default:"24h"`

	// Primary category behavior
	PrimaryContentTypes string `env:"PRIMARY_CONTENT_TYPES" env-default:"post"`
	UncategorizedSlug   string `env:"UNCATEGORIZED_SLUG" env-default:"uncategorized"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "" || cfg.DBPassword == "changeme" {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.NonceSecret == "" || cfg.NonceSecret == devNonceSecret {
			return nil, errors.New("NONCE_SECRET must be set in production")
		}
	}
	if cfg.NonceSecret == "" {
		cfg.NonceSecret = devNonceSecret
	}
	if cfg.NonceLifetime <= 0 {
		return nil, fmt.Errorf("NONCE_LIFETIME must be positive, got %s", cfg.NonceLifetime)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.UncategorizedSlug == "" {
		cfg.UncategorizedSlug = "uncategorized"
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection URL. Credentials are escaped so
// passwords containing '@' or '/' survive parsing.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ContentTypes returns the content types that carry a primary category.
func (c *Config) ContentTypes() []models.ContentType {
	return models.ParseContentTypes(c.PrimaryContentTypes, models.ContentTypePost)
}
