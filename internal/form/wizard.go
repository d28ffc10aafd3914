// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// InitialSubItemCount is the declared count of a new wizard.
const InitialSubItemCount = 1

// SubmitOptions carries user decisions taken at submit time.
type SubmitOptions struct {
	// ConfirmEmptyGallery submits even though the listing gallery is empty.
	ConfirmEmptyGallery bool
}

// Wizard drives the step-by-step creation of a listing. It is not safe for
// concurrent use.
type Wizard struct {
	draft
	creator Creator
	steps   []Step
	current int
}

// NewWizard creates a wizard positioned on the basic information step.
func NewWizard(kind model.Kind, creator Creator, opts Options) (*Wizard, error) {
	s, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, errors.New("form: creator is required")
	}

	w := &Wizard{draft: newDraft(s, opts, model.EventCategoryWizard), creator: creator}
	w.resize(InitialSubItemCount)
	return w, nil
}

// Steps returns the derived step list.
func (w *Wizard) Steps() []Step {
	out := make([]Step, len(w.steps))
	copy(out, w.steps)
	return out
}

// Current returns the current step.
func (w *Wizard) Current() Step { return w.steps[w.current] }

// SubItem returns the editor of sub-item i.
func (w *Wizard) SubItem(i int) (*SubItemEditor, error) { return w.item(i) }

// SetCount changes the declared sub-item count. It is only allowed on the
// count step. Growing appends blank sub-items; shrinking discards the
// trailing sub-items and releases their galleries. Sub-items within the new
// range keep their data.
func (w *Wizard) SetCount(n int) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if w.Current().Kind != StepSubItemCount {
		return ErrNotOnCountStep
	}
	if n < 0 {
		return invalid("count", "Count cannot be negative")
	}
	if n > MaxSubItems {
		return invalid("count", fmt.Sprintf("Count cannot exceed %d", MaxSubItems))
	}
	w.resize(n)
	return nil
}

func (w *Wizard) resize(n int) {
	for len(w.items) < n {
		w.items = append(w.items, w.newItem())
	}
	if len(w.items) > n {
		for _, item := range w.items[n:] {
			if err := item.arena.Close(); err != nil {
				w.logger.Warn("failed to release sub-item gallery", "error", err)
			}
		}
		clear(w.items[n:])
		w.items = w.items[:n]
	}
	w.steps = DeriveSteps(w.schema, n)
}

// Next validates the current step and advances by one. A failed rule is
// returned as a *ValidationError and leaves the wizard unchanged.
func (w *Wizard) Next() error {
	if err := w.mutable(); err != nil {
		return err
	}
	if w.current == len(w.steps)-1 {
		return ErrNoNextStep
	}
	if verr := w.validateStep(w.Current()); verr != nil {
		return verr
	}
	w.current++
	w.logger.Info("wizard step advanced", "step", w.Current().Ordinal, "step_kind", string(w.Current().Kind))
	return nil
}

// Prev moves back one step without validating. It stops at the first step.
func (w *Wizard) Prev() error {
	if err := w.mutable(); err != nil {
		return err
	}
	if w.current > 0 {
		w.current--
	}
	return nil
}

func (w *Wizard) validateStep(step Step) *ValidationError {
	switch step.Kind {
	case StepBasicInfo:
		if errs := validateRoot(w.schema, w.root); len(errs) > 0 {
			return errs[0]
		}
	case StepSubItemCount:
		if len(w.items) < 1 {
			return invalid("count", "Add at least one "+strings.ToLower(w.schema.SubItemLabel))
		}
	case StepSubItem:
		if verr := w.items[step.SubItem].Validate(); verr != nil {
			return prefixed(subItemPath(step.SubItem), []*ValidationError{verr})[0]
		}
	}
	return nil
}

// Submit uploads every gallery and creates the listing. It is only allowed
// on the final step. On failure the draft is left untouched and Submit may
// be called again; on success the wizard closes and the navigator is told
// to leave.
func (w *Wizard) Submit(ctx context.Context, opts SubmitOptions) (*model.RootRecord, error) {
	if err := w.mutable(); err != nil {
		return nil, err
	}
	if w.Current().Kind != StepFinalMedia {
		return nil, ErrNotOnFinalStep
	}
	for _, step := range w.steps {
		if verr := w.validateStep(step); verr != nil {
			return nil, verr
		}
	}
	if w.gallery.Len() == 0 && !opts.ConfirmEmptyGallery {
		return nil, ErrConfirmationRequired
	}

	w.phase = PhaseSubmitting
	w.logger.Info("wizard submit started", "sub_items", len(w.items))
	rec, err := w.submit(ctx)
	w.finish(rec, err)
	return rec, err
}

func (w *Wizard) submit(ctx context.Context) (*model.RootRecord, error) {
	images, items, err := w.materialize(ctx)
	if err != nil {
		return nil, err
	}
	payload := buildRecord(w.schema, w.root, images, items)
	rec, err := w.creator.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = payload
	}
	return rec, nil
}

// WizardView is a read-only snapshot of a wizard.
type WizardView struct {
	Kind                model.Kind        `json:"kind"`
	Phase               Phase             `json:"phase"`
	Steps               []Step            `json:"steps"`
	Current             Step              `json:"current"`
	Count               int               `json:"count"`
	Root                RootFields        `json:"root"`
	Gallery             []media.AssetView `json:"gallery"`
	SubItems            []SubItemView     `json:"sub_items"`
	SuggestedFacilities []string          `json:"suggested_facilities"`
	LastError           string            `json:"last_error,omitempty"`
	RecordID            string            `json:"record_id,omitempty"`
}

// Snapshot returns a read-only view of the wizard.
func (w *Wizard) Snapshot() WizardView {
	return WizardView{
		Kind:                w.schema.Kind,
		Phase:               w.phase,
		Steps:               w.Steps(),
		Current:             w.Current(),
		Count:               len(w.items),
		Root:                w.root.clone(),
		Gallery:             w.gallery.Views(),
		SubItems:            w.itemViews(),
		SuggestedFacilities: w.schema.SuggestedFacilities,
		LastError:           w.lastError(),
		RecordID:            w.recordID(),
	}
}
