// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/form"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// REST client defaults
const (
	DefaultTimeout = 20 * time.Second
	DefaultRetries = 1
)

// REST talks to the marketplace listing API. Sub-items travel under the
// kind's payload key ("room_types" or "vehicles").
type REST struct {
	client *resty.Client
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// NewREST creates a REST backend for cfg.BaseURL.
func NewREST(cfg Config) (*REST, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("rest backend requires a base URL")
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
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &REST{client: client}, nil
}

// Create implements Backend.
func (c *REST) Create(ctx context.Context, rec *model.RootRecord) (*model.RootRecord, error) {
	body, err := encodeRecord(rec)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "create", rec.Kind, http.MethodPost, "/"+rec.Kind.Collection(), body)
}

// Update implements Backend.
func (c *REST) Update(ctx context.Context, id string, rec *model.RootRecord) (*model.RootRecord, error) {
	body, err := encodeRecord(rec)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "update", rec.Kind, http.MethodPut, "/"+rec.Kind.Collection()+"/"+id, body)
}

// Get implements Backend.
func (c *REST) Get(ctx context.Context, kind model.Kind, id string) (*model.RootRecord, error) {
	rec, err := c.do(ctx, "read", kind, http.MethodGet, "/"+kind.Collection()+"/"+id, nil)
	if err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) && perr.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (c *REST) do(ctx context.Context, op string, kind model.Kind, method, path string, body []byte) (*model.RootRecord, error) {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)
	if resp.IsError() || decodeErr != nil || !env.Success {
		return nil, &PersistenceError{Op: op, Status: resp.StatusCode(), Message: env.Message}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	rec, err := decodeRecord(kind, env.Data)
	if err != nil {
		return nil, &PersistenceError{Op: op, Status: resp.StatusCode(), Err: fmt.Errorf("decoding listing: %w", err)}
	}
	return rec, nil
}

// encodeRecord renders rec with its sub-items under the kind's payload key.
func encodeRecord(rec *model.RootRecord) ([]byte, error) {
	s, err := form.SchemaFor(rec.Kind)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields[s.PayloadKey] = fields["sub_items"]
	delete(fields, "sub_items")
	return json.Marshal(fields)
}

func decodeRecord(kind model.Kind, data []byte) (*model.RootRecord, error) {
	s, err := form.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if items, ok := fields[s.PayloadKey]; ok {
		fields["sub_items"] = items
		delete(fields, s.PayloadKey)
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var rec model.RootRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if rec.Kind == "" {
		rec.Kind = kind
	}
	return &rec, nil
}
