// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the API router. Mount it at the server root.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthcheck", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Route("/wizards", h.wizardRoutes)
		r.Route("/edits", h.editRoutes)
		r.Get("/previews/{name}", h.Preview)
		if h.ReviewEnabled() {
			r.Route("/listings", h.listingRoutes)
		}
	})

	if h.uploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(noListingFS{http.Dir(h.uploadsDir)}))
		r.Get("/uploads/*", fs.ServeHTTP)
	}
	return r
}

// ReviewEnabled reports whether the listing review routes are mounted.
func (h *Handler) ReviewEnabled() bool {
	return h.statuses != nil && h.adminToken != ""
}

// uploads returns r with the upload rate limiter applied, if configured.
func (h *Handler) uploads(r chi.Router) chi.Router {
	if h.limiter == nil {
		return r
	}
	return r.With(h.limiter.Middleware())
}
