// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload stores staged images and returns their public URLs.
// Providers implement media.Uploader.
package upload

import (
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/util"
)

// Provider names
const (
	ProviderLocal = "local"
	ProviderHTTP  = "http"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	// Local provider
	Dir           string
	PublicBaseURL string

	// HTTP provider
	Endpoint string
	APIKey   string
	Folder   string
	Timeout  time.Duration
	Retries  int
}

// New creates the provider named by cfg.Provider.
func New(cfg Config) (media.Uploader, error) {
	switch cfg.Provider {
	case ProviderLocal, "":
		return NewLocal(cfg.Dir, cfg.PublicBaseURL)
	case ProviderHTTP:
		return NewHTTP(cfg)
	default:
		return nil, fmt.Errorf("unsupported upload provider: %s", cfg.Provider)
	}
}

// objectKey builds a date-partitioned, collision-free key for a file.
// Names without an extension get one from the content type.
func objectKey(prefix string, f media.File, now time.Time) string {
	filename := f.Name
	if path.Ext(filename) == "" {
		filename += model.ExtensionForMimeType(f.ContentType)
	}
	name := fmt.Sprintf("%s-%s", uuid.New().String(), util.SlugifyFilename(filename))
	return path.Join(prefix, now.Format("2006/01/02"), name)
}
