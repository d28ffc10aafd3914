// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/util"
)

// Local writes files below a directory served under a public base URL.
type Local struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewLocal creates a local provider. baseURL is the public URL of dir,
// e.g. "http://localhost:8080/uploads".
func NewLocal(dir, baseURL string) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("local upload provider requires a directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}, nil
}

// Dir returns the upload directory.
func (l *Local) Dir() string { return l.dir }

// Upload implements media.Uploader.
func (l *Local) Upload(ctx context.Context, f media.File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey("", f, l.now())
	target, err := util.SafeJoinPath(l.dir, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, f.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return l.baseURL + "/" + key, nil
}
