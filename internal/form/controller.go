// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// RootOwner addresses the listing gallery in media operations. Non-negative
// owners address the gallery of the sub-item with that index.
const RootOwner = -1

// Phase is the submission state of a controller.
type Phase string

// Controller phases
const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Creator persists a new listing.
type Creator interface {
	Create(ctx context.Context, rec *model.RootRecord) (*model.RootRecord, error)
}

// Updater replaces the full state of an existing listing.
type Updater interface {
	Update(ctx context.Context, id string, rec *model.RootRecord) (*model.RootRecord, error)
}

// Navigator leaves the current screen once a form has been submitted.
type Navigator interface {
	Leave(destination string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(destination string)

// Leave calls f(destination).
func (f NavigatorFunc) Leave(destination string) { f(destination) }

// ArenaFactory creates the gallery for one owner.
type ArenaFactory func() *media.Arena

// Options are the collaborators shared by both controllers.
type Options struct {
	NewArena  ArenaFactory
	Navigator Navigator
	Logger    *slog.Logger
}

func (o Options) validate() error {
	if o.NewArena == nil {
		return errors.New("form: arena factory is required")
	}
	return nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// draft is the state shared by the wizard and the edit form: the listing
// fields, its gallery and the sub-item editors.
type draft struct {
	schema  Schema
	opts    Options
	logger  *slog.Logger
	root    RootFields
	gallery *media.Arena
	items   []*SubItemEditor

	phase   Phase
	closed  bool
	lastErr error
	record  *model.RootRecord
}

func newDraft(s Schema, opts Options, category string) draft {
	return draft{
		schema:  s,
		opts:    opts,
		logger:  opts.logger().With("category", category, "kind", string(s.Kind)),
		gallery: opts.NewArena(),
		phase:   PhaseEditing,
	}
}

// mutable reports whether the draft accepts changes.
func (d *draft) mutable() error {
	if d.closed {
		return ErrClosed
	}
	if d.phase == PhaseSubmitting {
		return ErrSubmitInProgress
	}
	return nil
}

func (d *draft) item(i int) (*SubItemEditor, error) {
	if i < 0 || i >= len(d.items) {
		return nil, fmt.Errorf("%w: %d", ErrSubItemIndex, i)
	}
	return d.items[i], nil
}

func (d *draft) arena(owner int) (*media.Arena, error) {
	if owner == RootOwner {
		return d.gallery, nil
	}
	item, err := d.item(owner)
	if err != nil {
		return nil, err
	}
	return item.arena, nil
}

func (d *draft) newItem() *SubItemEditor {
	return NewSubItemEditor(d.opts.NewArena())
}

// Schema returns the kind schema of the form.
func (d *draft) Schema() Schema { return d.schema }

// Phase returns the submission state.
func (d *draft) Phase() Phase { return d.phase }

// Count returns the number of sub-items.
func (d *draft) Count() int { return len(d.items) }

// Record returns the listing returned by the backend after a successful submit.
func (d *draft) Record() *model.RootRecord { return d.record }

// UpdateRoot assigns listing fields without validating them.
func (d *draft) UpdateRoot(p RootPatch) error {
	if err := d.mutable(); err != nil {
		return err
	}
	d.root.apply(p)
	return nil
}

// UpdateSubItem assigns fields of sub-item i.
func (d *draft) UpdateSubItem(i int, p SubItemPatch) error {
	if err := d.mutable(); err != nil {
		return err
	}
	item, err := d.item(i)
	if err != nil {
		return err
	}
	item.Apply(p)
	return nil
}

// ToggleFacility toggles a facility tag of sub-item i.
func (d *draft) ToggleFacility(i int, tag string) error {
	if err := d.mutable(); err != nil {
		return err
	}
	item, err := d.item(i)
	if err != nil {
		return err
	}
	item.ToggleFacility(tag)
	return nil
}

// AddCustomFacility adds a typed facility tag to sub-item i.
func (d *draft) AddCustomFacility(i int, text string) error {
	if err := d.mutable(); err != nil {
		return err
	}
	item, err := d.item(i)
	if err != nil {
		return err
	}
	item.AddCustomFacility(text)
	return nil
}

// AddMedia stages files in the gallery of owner.
func (d *draft) AddMedia(owner int, files ...media.File) (media.AddResult, error) {
	if err := d.mutable(); err != nil {
		return media.AddResult{}, err
	}
	arena, err := d.arena(owner)
	if err != nil {
		return media.AddResult{}, err
	}
	res, err := arena.Add(files...)
	for _, r := range res.Rejected {
		d.logger.Info("image rejected", "owner", owner, "file", r.Filename, "reason", r.Reason)
	}
	return res, err
}

// RemoveMedia removes an asset from the gallery of owner. It reports
// whether the asset existed.
func (d *draft) RemoveMedia(owner int, assetID string) (bool, error) {
	if err := d.mutable(); err != nil {
		return false, err
	}
	arena, err := d.arena(owner)
	if err != nil {
		return false, err
	}
	ok, err := arena.Remove(assetID)
	if err != nil {
		d.logger.Warn("failed to release preview", "category", model.EventCategoryUpload,
			"asset_id", assetID, "error", err)
	}
	return ok, nil
}

// materialize uploads the listing gallery, then every sub-item gallery in
// index order. Persisted URLs of each owner precede its new uploads.
func (d *draft) materialize(ctx context.Context) ([]string, []model.SubItemRecord, error) {
	images, err := d.gallery.Materialize(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing gallery: %w", err)
	}
	images = append(d.gallery.PersistedURLs(), images...)

	items := make([]model.SubItemRecord, len(d.items))
	for i, item := range d.items {
		urls, err := item.arena.Materialize(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("%s %d gallery: %w", d.schema.SubItemLabel, i+1, err)
		}
		items[i] = buildSubItem(item, append(item.arena.PersistedURLs(), urls...))
	}
	return images, items, nil
}

// finish records the outcome of a submission.
func (d *draft) finish(rec *model.RootRecord, err error) {
	if err != nil {
		d.phase = PhaseFailed
		d.lastErr = err
		d.logger.Warn("submission failed", "error", err)
		return
	}
	d.phase = PhaseSucceeded
	d.lastErr = nil
	d.record = rec
	d.logger.Info("submission succeeded", "record_id", rec.ID)
	if err := d.Close(); err != nil {
		d.logger.Warn("failed to release previews", "error", err)
	}
	if d.opts.Navigator != nil {
		d.opts.Navigator.Leave(d.schema.Dashboard)
	}
}

// Close releases every gallery. Further changes return ErrClosed.
func (d *draft) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	errs := []error{d.gallery.Close()}
	for _, item := range d.items {
		errs = append(errs, item.arena.Close())
	}
	return errors.Join(errs...)
}

func (d *draft) lastError() string {
	if d.lastErr == nil {
		return ""
	}
	return d.lastErr.Error()
}

func (d *draft) itemViews() []SubItemView {
	views := make([]SubItemView, len(d.items))
	for i, item := range d.items {
		views[i] = item.view(i)
	}
	return views
}

func (d *draft) recordID() string {
	if d.record == nil {
		return ""
	}
	return d.record.ID
}
