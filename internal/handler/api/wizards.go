// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/form"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/session"
)

func (h *Handler) wizardRoutes(r chi.Router) {
	r.Post("/", h.createWizard)
	r.Route("/{id}", func(r chi.Router) {
		h.formRoutes(r, session.TypeWizard, nil)
		r.Put("/count", h.withSession(session.TypeWizard, h.setCount))
		r.Post("/next", h.withSession(session.TypeWizard, h.next))
		r.Post("/prev", h.withSession(session.TypeWizard, h.prev))
		r.Post("/submit", h.withSession(session.TypeWizard, h.submit))
	})
}

type createWizardRequest struct {
	Kind string `json:"kind"`
}

func (h *Handler) formOptions(nav form.Navigator) form.Options {
	return form.Options{NewArena: h.newArena, Navigator: nav, Logger: h.logger}
}

func (h *Handler) createWizard(w http.ResponseWriter, r *http.Request) {
	var req createWizardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		WriteValidationError(w, map[string]string{"kind": "Kind must be hotel or vehicle_rental"})
		return
	}

	s, err := h.sessions.AddWizard(func(nav form.Navigator) (*form.Wizard, error) {
		return form.NewWizard(kind, h.backend, h.formOptions(nav))
	})
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	WriteCreated(w, snapshot(s))
}

type countRequest struct {
	Count *int `json:"count"`
}

func (h *Handler) setCount(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var req countRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Count == nil {
		WriteValidationError(w, map[string]string{"count": "Count is required"})
		return
	}
	if err := s.Wizard().SetCount(*req.Count); err != nil {
		h.writeFormError(w, err)
		return
	}
	writeSnapshot(w, s)
}

func (h *Handler) next(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	if err := s.Wizard().Next(); err != nil {
		h.writeFormError(w, err)
		return
	}
	writeSnapshot(w, s)
}

func (h *Handler) prev(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	if err := s.Wizard().Prev(); err != nil {
		h.writeFormError(w, err)
		return
	}
	writeSnapshot(w, s)
}

type submitRequest struct {
	ConfirmEmptyGallery bool `json:"confirm_empty_gallery"`
}

// SubmitResult is returned by a successful submit or save.
type SubmitResult struct {
	Record   *model.RootRecord `json:"record"`
	Redirect string            `json:"redirect"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var req submitRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	rec, err := s.Wizard().Submit(r.Context(), form.SubmitOptions{ConfirmEmptyGallery: req.ConfirmEmptyGallery})
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	h.sessions.Forget(s)
	WriteCreated(w, SubmitResult{Record: rec, Redirect: s.Redirect()})
}
