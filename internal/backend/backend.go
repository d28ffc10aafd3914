// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backend persists listings for the form controllers, either through
// the marketplace REST API or in a local sqlite database.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// Backend providers
const (
	ProviderREST   = "rest"
	ProviderSQLite = "sqlite"
)

// DefaultSaveFailure is reported when the backend gives no reason.
const DefaultSaveFailure = "failed to save listing"

// ErrNotFound is returned when a listing does not exist.
var ErrNotFound = errors.New("listing not found")

// Backend creates, updates and reads listings.
type Backend interface {
	Create(ctx context.Context, rec *model.RootRecord) (*model.RootRecord, error)
	Update(ctx context.Context, id string, rec *model.RootRecord) (*model.RootRecord, error)
	Get(ctx context.Context, kind model.Kind, id string) (*model.RootRecord, error)
}

// StatusSetter records review decisions. Only backends that own their
// listings implement it.
type StatusSetter interface {
	SetStatus(ctx context.Context, id, status string) error
}

// PersistenceError reports a create or update the backend refused or could
// not complete. Message is safe to show to the owner.
type PersistenceError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = DefaultSaveFailure
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s listing: %s (status %d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s listing: %s", e.Op, msg)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Config selects and configures a backend.
type Config struct {
	Provider string
	BaseURL  string
	Token    string
	Timeout  time.Duration
	Retries  int
	DB       *sql.DB
}

// New returns the backend named by cfg.Provider.
func New(cfg Config) (Backend, error) {
	switch cfg.Provider {
	case ProviderREST:
		return NewREST(cfg)
	case ProviderSQLite, "":
		if cfg.DB == nil {
			return nil, errors.New("sqlite backend requires a database")
		}
		return NewStore(cfg.DB), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q", cfg.Provider)
	}
}
