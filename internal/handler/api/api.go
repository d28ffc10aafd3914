// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST surface driving listing wizards and
// edit forms.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/backend"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/form"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/imaging"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/middleware"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/session"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/version"
)

// DefaultMaxRequestBytes bounds a multipart media request.
const DefaultMaxRequestBytes = 64 << 20

// Config holds the handler's collaborators.
type Config struct {
	Sessions *session.Registry
	Backend  backend.Backend
	NewArena form.ArenaFactory
	Previews *imaging.Previews
	// UploadsDir is served under /uploads when the local upload provider is used.
	UploadsDir      string
	MaxRequestBytes int64
	RateLimiter     *middleware.RateLimiter
	// AdminToken guards the review routes. They are mounted only when it is
	// set and Backend implements backend.StatusSetter.
	AdminToken string
	Version    version.Info
	Logger     *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	sessions   *session.Registry
	backend    backend.Backend
	newArena   form.ArenaFactory
	previews   *imaging.Previews
	uploadsDir string
	maxBytes   int64
	limiter    *middleware.RateLimiter
	statuses   backend.StatusSetter
	adminToken string
	version    version.Info
	logger     *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Sessions == nil || cfg.Backend == nil || cfg.NewArena == nil {
		return nil, errors.New("api: sessions, backend and arena factory are required")
	}
	h := &Handler{
		sessions:   cfg.Sessions,
		backend:    cfg.Backend,
		newArena:   cfg.NewArena,
		previews:   cfg.Previews,
		uploadsDir: cfg.UploadsDir,
		maxBytes:   cfg.MaxRequestBytes,
		limiter:    cfg.RateLimiter,
		adminToken: cfg.AdminToken,
		version:    cfg.Version.OrDev(),
		logger:     cfg.Logger,
	}
	if ss, ok := cfg.Backend.(backend.StatusSetter); ok {
		h.statuses = ss
	}
	if h.maxBytes <= 0 {
		h.maxBytes = DefaultMaxRequestBytes
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h, nil
}

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, code, message string) {
	WriteError(w, http.StatusConflict, code, message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// decodeJSON reads a JSON request body into dst. Unknown fields are refused.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, false)
}

// decodeOptionalJSON is decodeJSON for requests whose body may be empty,
// including empty chunked bodies.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if optional && (r.Body == nil || r.Body == http.NoBody) {
		return true
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		WriteBadRequest(w, "Invalid JSON body: "+err.Error(), nil)
		return false
	}
	return true
}
