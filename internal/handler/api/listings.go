// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/middleware"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// listingRoutes mounts the back-office review routes. They exist only when
// the backend stores review decisions and an admin token is configured.
func (h *Handler) listingRoutes(r chi.Router) {
	r.Use(middleware.BearerToken(h.adminToken))
	r.Put("/{kind}/{id}/status", h.setStatus)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// setStatus records a review decision for a listing.
func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		WriteNotFound(w, "Listing not found")
		return
	}
	var req setStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !model.IsValidStatus(req.Status) {
		WriteValidationError(w, map[string]string{"status": "Status must be pending, approved or rejected"})
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.backend.Get(r.Context(), kind, id); err != nil {
		h.writeFormError(w, err)
		return
	}
	if err := h.statuses.SetStatus(r.Context(), id, req.Status); err != nil {
		h.writeFormError(w, err)
		return
	}
	rec, err := h.backend.Get(r.Context(), kind, id)
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	h.logger.Info("listing status changed", "category", model.EventCategoryBackend, "listing_id", id, "status", req.Status)
	WriteSuccess(w, rec)
}
