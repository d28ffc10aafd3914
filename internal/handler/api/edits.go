// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/form"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/session"
)

func (h *Handler) editRoutes(r chi.Router) {
	r.Post("/", h.createEdit)
	r.Route("/{id}", func(r chi.Router) {
		h.formRoutes(r, session.TypeEdit, func(r chi.Router) {
			r.Delete("/", h.withSession(session.TypeEdit, h.removeSubItem))
		})
		r.Post("/sub-items", h.withSession(session.TypeEdit, h.addSubItem))
		r.Post("/validate", h.withSession(session.TypeEdit, h.validateEdit))
		r.Post("/save", h.withSession(session.TypeEdit, h.save))
	})
}

type createEditRequest struct {
	Kind     string `json:"kind"`
	RecordID string `json:"record_id"`
}

func (h *Handler) createEdit(w http.ResponseWriter, r *http.Request) {
	var req createEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		WriteValidationError(w, map[string]string{"kind": "Kind must be hotel or vehicle_rental"})
		return
	}
	if strings.TrimSpace(req.RecordID) == "" {
		WriteValidationError(w, map[string]string{"record_id": "Record id is required"})
		return
	}

	rec, err := h.backend.Get(r.Context(), kind, req.RecordID)
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	s, err := h.sessions.AddEdit(func(nav form.Navigator) (*form.Edit, error) {
		return form.Load(rec, h.backend, h.formOptions(nav))
	})
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	WriteCreated(w, snapshot(s))
}

func (h *Handler) addSubItem(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	if _, err := s.Edit().AddSubItem(); err != nil {
		h.writeFormError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, Response{Data: snapshot(s)})
}

func (h *Handler) removeSubItem(w http.ResponseWriter, r *http.Request, s *session.Session) {
	i, err := subItemIndex(r)
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	if err := s.Edit().RemoveSubItem(i); err != nil {
		h.writeFormError(w, err)
		return
	}
	writeSnapshot(w, s)
}

func (h *Handler) validateEdit(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	if err := s.Edit().Validate(); err != nil {
		h.writeFormError(w, err)
		return
	}
	writeSnapshot(w, s)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, s *session.Session) {
	rec, err := s.Edit().Save(r.Context())
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	h.sessions.Forget(s)
	WriteSuccess(w, SubmitResult{Record: rec, Redirect: s.Redirect()})
}
