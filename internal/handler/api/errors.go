// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/backend"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/form"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/session"
)

// writeFormError maps controller, session and collaborator errors to the
// error envelope.
func (h *Handler) writeFormError(w http.ResponseWriter, err error) {
	var (
		fieldErrs  form.FieldErrors
		verr       *form.ValidationError
		uploadErr  *media.UploadError
		persistErr *backend.PersistenceError
	)

	switch {
	case errors.As(err, &fieldErrs):
		WriteValidationError(w, fieldErrs.Map())
	case errors.As(err, &verr):
		WriteValidationError(w, map[string]string{verr.Field: verr.Message})

	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrWrongType):
		WriteNotFound(w, "Session not found")
	case errors.Is(err, backend.ErrNotFound):
		WriteNotFound(w, "Listing not found")
	case errors.Is(err, form.ErrSubItemIndex):
		WriteNotFound(w, "Sub-item not found")
	case errors.Is(err, errAssetNotFound):
		WriteNotFound(w, "Image not found")

	case errors.Is(err, session.ErrBusy), errors.Is(err, form.ErrSubmitInProgress):
		WriteConflict(w, "session_busy", "A submission is in progress")
	case errors.Is(err, form.ErrConfirmationRequired):
		WriteConflict(w, "confirmation_required", "The listing has no images; confirm to continue without them")
	case errors.Is(err, form.ErrNotEditable):
		WriteConflict(w, "not_editable", "This listing is under review and cannot be edited")
	case errors.Is(err, form.ErrClosed), errors.Is(err, media.ErrArenaClosed):
		WriteConflict(w, "conflict", "The form is closed")
	case errors.Is(err, form.ErrNotOnCountStep), errors.Is(err, form.ErrNotOnFinalStep), errors.Is(err, form.ErrNoNextStep):
		WriteConflict(w, "conflict", err.Error())

	case errors.As(err, &uploadErr):
		WriteError(w, http.StatusBadGateway, "upload_failed", "Failed to upload "+uploadErr.Filename,
			map[string]string{"asset_id": uploadErr.AssetID, "filename": uploadErr.Filename})
	case errors.As(err, &persistErr):
		msg := persistErr.Message
		if msg == "" {
			msg = backend.DefaultSaveFailure
		}
		WriteError(w, http.StatusBadGateway, "persistence_failed", msg, nil)

	default:
		h.logger.Error("unhandled form error", "error", err)
		WriteInternalError(w, "Internal error")
	}
}
