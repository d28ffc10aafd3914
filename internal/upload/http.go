// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
)

// HTTP defaults
const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 2
)

// HTTP posts files as multipart forms to an object-storage upload endpoint.
// The endpoint answers with JSON carrying "secure_url" or "url".
type HTTP struct {
	client   *resty.Client
	endpoint string
	folder   string
	now      func() time.Time
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewHTTP creates an HTTP provider.
func NewHTTP(cfg Config) (*HTTP, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("http upload provider requires an endpoint")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = DefaultRetries
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-Api-Key", cfg.APIKey)
	}
	return &HTTP{client: client, endpoint: cfg.Endpoint, folder: cfg.Folder, now: time.Now}, nil
}

// Upload implements media.Uploader.
func (h *HTTP) Upload(ctx context.Context, f media.File) (string, error) {
	var out uploadResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetFileReader("file", f.Name, bytes.NewReader(f.Data)).
		SetFormData(map[string]string{
			"public_id":    objectKey(h.folder, f, h.now()),
			"content_type": f.ContentType,
		}).
		SetResult(&out).
		SetError(&out).
		Post(h.endpoint)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("upload rejected (%d): %s", resp.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("upload rejected: %s", resp.Status())
	}

	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", fmt.Errorf("upload response carried no URL")
}
