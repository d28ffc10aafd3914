// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
)

// Preview serves a staged image's thumbnail. Thumbnails disappear once the
// image is removed, uploaded or its session ends.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.previews == nil {
		WriteNotFound(w, "Preview not found")
		return
	}
	path, err := h.previews.Path(chi.URLParam(r, "name"))
	if err != nil {
		WriteNotFound(w, "Preview not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		WriteNotFound(w, "Preview not found")
		return
	}
	w.Header().Set("Cache-Control", "private, no-store")
	http.ServeFile(w, r, path)
}

// noListingFS hides directory listings of the uploads directory.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	Sessions  int    `json:"sessions"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:    "ok",
		Version:   h.version.Version,
		GitCommit: h.version.GitCommit,
		Sessions:  h.sessions.Len(),
	})
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /healthcheck.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, HealthStatus{Status: "healthy", Timestamp: time.Now().UTC()})
}
