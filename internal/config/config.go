// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading. Values come
// from environment variables, then an optional TOML file named by
// PROMPTPOLISH_CONFIG, then built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"promptpolish/internal/ai"
)

// Supported history backends.
const (
	BackendMemory   = "memory"
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
)

// defaultDBPassword is the development password production must override.
const defaultDBPassword = "changeme"

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json

	// OpenRouter backend
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string
	OpenRouterReferer string
	OpenRouterTitle   string
	OptimizeTimeout   time.Duration

	// History storage: memory, valkey or postgres
	HistoryBackend string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// HTTP surface
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

// fileConfig mirrors Config in the TOML file layout.
type fileConfig struct {
	Server struct {
		Host string `toml:"host"`
		Port string `toml:"port"`
		Env  string `toml:"env"`
	} `toml:"server"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	OpenRouter struct {
		APIKey  string `toml:"api_key"`
		BaseURL string `toml:"base_url"`
		Model   string `toml:"model"`
		Referer string `toml:"referer"`
		Title   string `toml:"title"`
		Timeout string `toml:"timeout"`
	} `toml:"openrouter"`
	History struct {
		Backend string `toml:"backend"`
	} `toml:"history"`
	Postgres struct {
		Host     string `toml:"host"`
		Port     string `toml:"port"`
		User     string `toml:"user"`
		Password string `toml:"password"`
		DB       string `toml:"db"`
	} `toml:"postgres"`
	Valkey struct {
		Host     string `toml:"host"`
		Port     string `toml:"port"`
		Password string `toml:"password"`
		DB       string `toml:"db"`
	} `toml:"valkey"`
	HTTP struct {
		RateLimitPerMinute string   `toml:"rate_limit_per_minute"`
		CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	} `toml:"http"`
}

// Load reads configuration from the environment and the optional file named
// by PROMPTPOLISH_CONFIG. Returns an error if values are malformed or if
// critical values are missing in production mode.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("PROMPTPOLISH_CONFIG"))
}

// LoadFile is Load with an explicit config file path. An empty path means
// no file; a named file that does not exist is an error.
func LoadFile(path string) (*Config, error) {
	var fc fileConfig
	if path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Host: pick("APP_HOST", fc.Server.Host, "0.0.0.0"),
		Port: pick("APP_PORT", fc.Server.Port, "5000"),
		Env:  pick("APP_ENV", fc.Server.Env, "development"),

		LogLevel:  pick("LOG_LEVEL", fc.Log.Level, "info"),
		LogFormat: pick("LOG_FORMAT", fc.Log.Format, "text"),

		OpenRouterAPIKey:  pick("OPENROUTER_API_KEY", fc.OpenRouter.APIKey, ""),
		OpenRouterBaseURL: pick("OPENROUTER_BASE_URL", fc.OpenRouter.BaseURL, ai.DefaultBaseURL),
		OpenRouterModel:   pick("OPENROUTER_MODEL", fc.OpenRouter.Model, ai.DefaultModel),
		OpenRouterReferer: pick("OPENROUTER_REFERER", fc.OpenRouter.Referer, ai.DefaultReferer),
		OpenRouterTitle:   pick("OPENROUTER_TITLE", fc.OpenRouter.Title, ai.DefaultTitle),

		HistoryBackend: strings.ToLower(pick("HISTORY_BACKEND", fc.History.Backend, BackendMemory)),

		DBHost:     pick("POSTGRES_HOST", fc.Postgres.Host, "localhost"),
		DBPort:     pick("POSTGRES_PORT", fc.Postgres.Port, "5432"),
		DBUser:     pick("POSTGRES_USER", fc.Postgres.User, "promptpolish"),
		DBPassword: pick("POSTGRES_PASSWORD", fc.Postgres.Password, defaultDBPassword),
		DBName:     pick("POSTGRES_DB", fc.Postgres.DB, "promptpolish"),

		ValkeyHost:     pick("VALKEY_HOST", fc.Valkey.Host, "localhost"),
		ValkeyPort:     pick("VALKEY_PORT", fc.Valkey.Port, "6379"),
		ValkeyPassword: pick("VALKEY_PASSWORD", fc.Valkey.Password, ""),
	}

	var errs []error

	timeout, err := time.ParseDuration(pick("OPTIMIZE_TIMEOUT", fc.OpenRouter.Timeout, ai.DefaultTimeout.String()))
	if err != nil || timeout <= 0 {
		errs = append(errs, fmt.Errorf("OPTIMIZE_TIMEOUT must be a positive duration"))
	}
	cfg.OptimizeTimeout = timeout

	cfg.ValkeyDB, err = strconv.Atoi(pick("VALKEY_DB", fc.Valkey.DB, "0"))
	if err != nil || cfg.ValkeyDB < 0 {
		errs = append(errs, fmt.Errorf("VALKEY_DB must be a non-negative integer"))
	}

	cfg.RateLimitPerMinute, err = strconv.Atoi(pick("RATE_LIMIT_PER_MINUTE", fc.HTTP.RateLimitPerMinute, "30"))
	if err != nil || cfg.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a non-negative integer"))
	}

	cfg.CORSAllowedOrigins = fc.HTTP.CORSAllowedOrigins
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	switch cfg.HistoryBackend {
	case BackendMemory, BackendValkey, BackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("HISTORY_BACKEND %q is not one of memory, valkey, postgres", cfg.HistoryBackend))
	}

	if u, err := url.Parse(cfg.OpenRouterBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("OPENROUTER_BASE_URL %q is not an absolute URL", cfg.OpenRouterBaseURL))
	}

	if cfg.Env == "production" {
		if cfg.OpenRouterAPIKey == "" {
			errs = append(errs, fmt.Errorf("OPENROUTER_API_KEY must be set in production"))
		}
		if cfg.HistoryBackend == BackendPostgres && cfg.DBPassword == defaultDBPassword {
			errs = append(errs, fmt.Errorf("POSTGRES_PASSWORD must be set in production"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
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

// Provider returns the OpenRouter settings in the form the ai package takes.
func (c *Config) Provider() ai.ProviderConfig {
	return ai.ProviderConfig{
		APIKey:  c.OpenRouterAPIKey,
		Model:   c.OpenRouterModel,
		BaseURL: c.OpenRouterBaseURL,
		Referer: c.OpenRouterReferer,
		Title:   c.OpenRouterTitle,
	}
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// pick returns the environment value for key, else the file value, else
// the fallback. Empty strings count as unset.
func pick(key, fileValue, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return fallback
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
