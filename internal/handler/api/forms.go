// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/form"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/session"
)

// listingForm is the part of the wizard and edit controllers shared by
// both route trees.
type listingForm interface {
	UpdateRoot(p form.RootPatch) error
	UpdateSubItem(i int, p form.SubItemPatch) error
	ToggleFacility(i int, tag string) error
	AddCustomFacility(i int, text string) error
	AddMedia(owner int, files ...media.File) (media.AddResult, error)
	RemoveMedia(owner int, assetID string) (bool, error)
}

// sessionHandler runs with the session held exclusively.
type sessionHandler func(w http.ResponseWriter, r *http.Request, s *session.Session)

// withSession resolves {id} to a session of type typ, holds it for the
// duration of fn and maps lookup failures.
func (h *Handler) withSession(typ string, fn sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, release, err := h.sessions.Acquire(chi.URLParam(r, "id"), typ)
		if err != nil {
			h.writeFormError(w, err)
			return
		}
		defer release()
		fn(w, r, s)
	}
}

func formOf(s *session.Session) listingForm {
	if s.Type == session.TypeWizard {
		return s.Wizard()
	}
	return s.Edit()
}

// snapshot renders the session's current state.
func snapshot(s *session.Session) SessionView {
	v := SessionView{ID: s.ID, Type: s.Type, Redirect: s.Redirect()}
	if s.Type == session.TypeWizard {
		v.Form = s.Wizard().Snapshot()
	} else {
		v.Form = s.Edit().Snapshot()
	}
	return v
}

// SessionView is the response body of every session route.
type SessionView struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Form     any    `json:"form"`
	Redirect string `json:"redirect,omitempty"`
}

func writeSnapshot(w http.ResponseWriter, s *session.Session) {
	WriteSuccess(w, snapshot(s))
}

// subItemIndex parses the {index} URL parameter.
func subItemIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 {
		return 0, form.ErrSubItemIndex
	}
	return i, nil
}

// owner returns form.RootOwner for listing-level routes and the sub-item
// index otherwise.
func owner(r *http.Request) (int, error) {
	if chi.URLParam(r, "index") == "" {
		return form.RootOwner, nil
	}
	return subItemIndex(r)
}

// formRoutes registers the field, facility and media routes shared by
// wizards and edits. subItem adds type-specific routes to the sub-item tree.
func (h *Handler) formRoutes(r chi.Router, typ string, subItem func(r chi.Router)) {
	r.Get("/", h.withSession(typ, h.getSession))
	r.Delete("/", h.deleteSession(typ))
	r.Patch("/root", h.withSession(typ, h.patchRoot))
	h.uploads(r).Post("/media", h.withSession(typ, h.addMedia))
	r.Delete("/media/{assetID}", h.withSession(typ, h.removeMedia))

	r.Route("/sub-items/{index}", func(r chi.Router) {
		r.Patch("/", h.withSession(typ, h.patchSubItem))
		r.Post("/facilities", h.withSession(typ, h.facility))
		h.uploads(r).Post("/media", h.withSession(typ, h.addMedia))
		r.Delete("/media/{assetID}", h.withSession(typ, h.removeMedia))
		if subItem != nil {
			subItem(r)
		}
	})
}

func (h *Handler) deleteSession(typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.Delete(chi.URLParam(r, "id"), typ); err != nil {
			h.writeFormError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) getSession(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	writeSnapshot(w, s)
}

func (h *Handler) patchRoot(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var p form.RootPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := formOf(s).UpdateRoot(p); err != nil {
		h.writeFormError(w, err)
		return
	}
	writeSnapshot(w, s)
}

func (h *Handler) patchSubItem(w http.ResponseWriter, r *http.Request, s *session.Session) {
	i, err := subItemIndex(r)
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	var p form.SubItemPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := formOf(s).UpdateSubItem(i, p); err != nil {
		h.writeFormError(w, err)
		return
	}
	writeSnapshot(w, s)
}

// facilityRequest toggles Tag or adds the free-text Custom facility.
type facilityRequest struct {
	Tag    string `json:"tag"`
	Custom string `json:"custom"`
}

func (h *Handler) facility(w http.ResponseWriter, r *http.Request, s *session.Session) {
	i, err := subItemIndex(r)
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	var req facilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	switch {
	case req.Tag != "" && req.Custom != "":
		WriteBadRequest(w, "Send either tag or custom, not both", nil)
		return
	case req.Tag != "":
		err = formOf(s).ToggleFacility(i, req.Tag)
	case strings.TrimSpace(req.Custom) != "":
		err = formOf(s).AddCustomFacility(i, req.Custom)
	default:
		WriteValidationError(w, map[string]string{"tag": "A facility is required"})
		return
	}
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	writeSnapshot(w, s)
}

// MediaResult reports the outcome of a media upload request.
type MediaResult struct {
	Added    []media.AssetView `json:"added"`
	Rejected []RejectedFile    `json:"rejected"`
	Session  SessionView       `json:"session"`
}

// RejectedFile describes a file that was not staged.
type RejectedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

func (h *Handler) addMedia(w http.ResponseWriter, r *http.Request, s *session.Session) {
	o, err := owner(r)
	if err != nil {
		h.writeFormError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteBadRequest(w, "Failed to parse multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		WriteBadRequest(w, "No file provided. Use the 'files' field", nil)
		return
	}

	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readPart(fh)
		if err != nil {
			WriteBadRequest(w, err.Error(), nil)
			return
		}
		files = append(files, f)
	}

	res, err := formOf(s).AddMedia(o, files...)
	if err != nil {
		h.writeFormError(w, err)
		return
	}

	out := MediaResult{Added: make([]media.AssetView, 0, len(res.Added)), Rejected: make([]RejectedFile, 0, len(res.Rejected))}
	for _, a := range res.Added {
		out.Added = append(out.Added, a.View())
	}
	for _, rej := range res.Rejected {
		out.Rejected = append(out.Rejected, RejectedFile{Filename: rej.Filename, Reason: rej.Reason, Message: rej.Error()})
	}
	out.Session = snapshot(s)

	status := http.StatusOK
	if len(out.Added) > 0 {
		status = http.StatusCreated
	}
	WriteJSON(w, status, Response{Data: out})
}

// readPart loads a multipart file. The stored content type is sniffed from
// the bytes when they look like an image, otherwise the declared one is kept.
func readPart(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, fmt.Errorf("failed to open %s", fh.Filename)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return media.File{}, fmt.Errorf("failed to read %s", fh.Filename)
	}

	ct := fh.Header.Get("Content-Type")
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		ct = sniffed
	} else if ct == "application/octet-stream" {
		ct = ""
	}
	return media.File{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

func (h *Handler) removeMedia(w http.ResponseWriter, r *http.Request, s *session.Session) {
	o, err := owner(r)
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	ok, err := formOf(s).RemoveMedia(o, chi.URLParam(r, "assetID"))
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	if !ok {
		h.writeFormError(w, errAssetNotFound)
		return
	}
	writeSnapshot(w, s)
}

var errAssetNotFound = errors.New("asset not found")
