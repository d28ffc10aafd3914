// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// MaxImageSizeLimit caps TN_MAX_IMAGE_SIZE.
const MaxImageSizeLimit = 50 << 20

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"TN_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"TN_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"TN_ENV" envDefault:"development"`
	LogLevel   string `env:"TN_LOG_LEVEL" envDefault:"info"`

	// Upload collaborator
	UploadProvider string `env:"TN_UPLOAD_PROVIDER" envDefault:"local"` // local or http
	UploadsDir     string `env:"TN_UPLOADS_DIR" envDefault:"./uploads"`
	PublicBaseURL  string `env:"TN_PUBLIC_BASE_URL" envDefault:"http://localhost:8080/uploads"`
	UploadEndpoint string `env:"TN_UPLOAD_ENDPOINT"`
	UploadAPIKey   string `env:"TN_UPLOAD_API_KEY"`
	UploadFolder   string `env:"TN_UPLOAD_FOLDER" envDefault:"listings"`
	MaxImageSize   int64  `env:"TN_MAX_IMAGE_SIZE" envDefault:"10485760"`
	UploadWorkers  int    `env:"TN_UPLOAD_CONCURRENCY" envDefault:"4"`

	// Persistence collaborator
	BackendProvider string `env:"TN_BACKEND_PROVIDER" envDefault:"sqlite"` // rest or sqlite
	BackendURL      string `env:"TN_BACKEND_URL"`
	BackendToken    string `env:"TN_BACKEND_TOKEN"`
	DBPath          string `env:"TN_DB_PATH" envDefault:"./data/tournexus.db"`
	AdminToken      string `env:"TN_ADMIN_TOKEN"` // enables the listing review routes on sqlite

	// Sessions
	PreviewDir     string        `env:"TN_PREVIEW_DIR" envDefault:"./data/previews"`
	SessionIdleTTL time.Duration `env:"TN_SESSION_IDLE_TTL" envDefault:"2h"`
	SweepSchedule  string        `env:"TN_SWEEP_SCHEDULE" envDefault:"*/5 * * * *"`
	EventRetention time.Duration `env:"TN_EVENT_RETENTION" envDefault:"720h"`

	// HTTP
	UploadRateLimit float64       `env:"TN_UPLOAD_RATE_LIMIT" envDefault:"5"` // requests per second per IP
	UploadRateBurst int           `env:"TN_UPLOAD_RATE_BURST" envDefault:"10"`
	RequestTimeout  time.Duration `env:"TN_REQUEST_TIMEOUT" envDefault:"60s"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field rules.
func (c Config) Validate() error {
	var errs []error

	switch c.Env {
	case "development", "production":
	default:
		errs = append(errs, fmt.Errorf("TN_ENV must be development or production, got %q", c.Env))
	}

	switch c.UploadProvider {
	case "local":
		if c.UploadsDir == "" {
			errs = append(errs, errors.New("TN_UPLOADS_DIR is required for the local upload provider"))
		}
	case "http":
		if c.UploadEndpoint == "" {
			errs = append(errs, errors.New("TN_UPLOAD_ENDPOINT is required for the http upload provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("TN_UPLOAD_PROVIDER must be local or http, got %q", c.UploadProvider))
	}

	switch c.BackendProvider {
	case "rest":
		if c.BackendURL == "" {
			errs = append(errs, errors.New("TN_BACKEND_URL is required for the rest backend"))
		}
	case "sqlite":
		if c.DBPath == "" {
			errs = append(errs, errors.New("TN_DB_PATH is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("TN_BACKEND_PROVIDER must be rest or sqlite, got %q", c.BackendProvider))
	}

	if c.MaxImageSize <= 0 || c.MaxImageSize > MaxImageSizeLimit {
		errs = append(errs, fmt.Errorf("TN_MAX_IMAGE_SIZE must be between 1 and %d bytes, got %d", MaxImageSizeLimit, c.MaxImageSize))
	}
	if c.UploadWorkers < 1 {
		errs = append(errs, fmt.Errorf("TN_UPLOAD_CONCURRENCY must be at least 1, got %d", c.UploadWorkers))
	}
	if c.SessionIdleTTL <= 0 {
		errs = append(errs, errors.New("TN_SESSION_IDLE_TTL must be positive"))
	}
	if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
		errs = append(errs, fmt.Errorf("TN_SWEEP_SCHEDULE is invalid: %w", err))
	}
	if c.UploadRateLimit <= 0 || c.UploadRateBurst < 1 {
		errs = append(errs, errors.New("TN_UPLOAD_RATE_LIMIT and TN_UPLOAD_RATE_BURST must be positive"))
	}

	return errors.Join(errs...)
}
