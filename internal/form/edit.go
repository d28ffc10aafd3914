// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// Edit reconciles a persisted listing with the owner's changes and saves
// the full result in one update. It is not safe for concurrent use.
type Edit struct {
	draft
	updater  Updater
	recordID string
	status   string
}

// Load prepares an edit form for rec. Listings whose status is not
// editable are refused with ErrNotEditable so the caller can redirect.
func Load(rec *model.RootRecord, updater Updater, opts Options) (*Edit, error) {
	if rec == nil {
		return nil, errors.New("form: record is required")
	}
	if !model.IsEditableStatus(rec.Status) {
		return nil, fmt.Errorf("%w: status %q", ErrNotEditable, rec.Status)
	}
	s, err := SchemaFor(rec.Kind)
	if err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if updater == nil {
		return nil, errors.New("form: updater is required")
	}

	e := &Edit{
		draft:    newDraft(s, opts, model.EventCategoryEdit),
		updater:  updater,
		recordID: rec.ID,
		status:   rec.Status,
	}
	e.root = RootFields{
		Name:         rec.Name,
		Address:      rec.Address,
		City:         rec.City,
		District:     rec.District,
		Description:  rec.Description,
		ContactPhone: rec.ContactPhone,
		ContactEmail: rec.ContactEmail,
		StarRating:   rec.StarRating,
		Flags:        rec.Flags,
	}.clone()

	if err := e.gallery.AddPersisted(rec.Images...); err != nil {
		return nil, err
	}
	for _, sub := range rec.SubItems {
		item := e.newItem()
		if err := item.load(sub); err != nil {
			return nil, err
		}
		e.items = append(e.items, item)
	}
	e.logger.Info("edit form loaded", "record_id", rec.ID, "sub_items", len(e.items))
	return e, nil
}

// RecordID returns the id of the listing being edited.
func (e *Edit) RecordID() string { return e.recordID }

// SubItem returns the editor of sub-item i.
func (e *Edit) SubItem(i int) (*SubItemEditor, error) { return e.item(i) }

// AddSubItem appends a blank sub-item with an empty gallery and returns its index.
func (e *Edit) AddSubItem() (int, error) {
	if err := e.mutable(); err != nil {
		return 0, err
	}
	if len(e.items) >= MaxSubItems {
		return 0, invalid("sub_items", fmt.Sprintf("A listing cannot have more than %d entries", MaxSubItems))
	}
	e.items = append(e.items, e.newItem())
	return len(e.items) - 1, nil
}

// RemoveSubItem discards sub-item i and releases its gallery. Later
// sub-items shift down by one together with their galleries.
func (e *Edit) RemoveSubItem(i int) error {
	if err := e.mutable(); err != nil {
		return err
	}
	item, err := e.item(i)
	if err != nil {
		return err
	}
	if err := item.arena.Close(); err != nil {
		e.logger.Warn("failed to release sub-item gallery", "error", err)
	}
	e.items = slices.Delete(e.items, i, i+1)
	return nil
}

// Validate checks every listing field and every sub-item and returns all
// failures as FieldErrors, or nil.
func (e *Edit) Validate() error {
	var errs FieldErrors
	errs = append(errs, validateRoot(e.schema, e.root)...)
	if len(e.items) == 0 {
		errs = append(errs, invalid("sub_items", "At least one "+strings.ToLower(e.schema.SubItemLabel)+" is required"))
	}
	for i, item := range e.items {
		errs = append(errs, prefixed(subItemPath(i), item.validateFields())...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Save uploads every pending image, appends the new URLs to each owner's
// existing ones and sends the full listing in one update. A failed save
// leaves the draft untouched so it can be retried.
func (e *Edit) Save(ctx context.Context) (*model.RootRecord, error) {
	if err := e.mutable(); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	e.phase = PhaseSubmitting
	e.logger.Info("edit save started", "record_id", e.recordID)
	rec, err := e.save(ctx)
	e.finish(rec, err)
	return rec, err
}

func (e *Edit) save(ctx context.Context) (*model.RootRecord, error) {
	images, items, err := e.materialize(ctx)
	if err != nil {
		return nil, err
	}
	payload := buildRecord(e.schema, e.root, images, items)
	payload.ID = e.recordID
	rec, err := e.updater.Update(ctx, e.recordID, payload)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = payload
	}
	return rec, nil
}

// EditView is a read-only snapshot of an edit form.
type EditView struct {
	Kind                model.Kind        `json:"kind"`
	RecordID            string            `json:"record_id"`
	Status              string            `json:"status"`
	Phase               Phase             `json:"phase"`
	Root                RootFields        `json:"root"`
	Gallery             []media.AssetView `json:"gallery"`
	SubItems            []SubItemView     `json:"sub_items"`
	SuggestedFacilities []string          `json:"suggested_facilities"`
	LastError           string            `json:"last_error,omitempty"`
}

// Snapshot returns a read-only view of the edit form.
func (e *Edit) Snapshot() EditView {
	return EditView{
		Kind:                e.schema.Kind,
		RecordID:            e.recordID,
		Status:              e.status,
		Phase:               e.phase,
		Root:                e.root.clone(),
		Gallery:             e.gallery.Views(),
		SubItems:            e.itemViews(),
		SuggestedFacilities: e.schema.SuggestedFacilities,
		LastError:           e.lastError(),
	}
}
