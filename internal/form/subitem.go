// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"slices"
	"strings"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// SubItemFields are the scalar fields of a room type or vehicle.
type SubItemFields struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	UnitCount   int     `json:"unit_count"`
	UnitPrice   float64 `json:"unit_price"`
	Capacity    int     `json:"capacity"`
	Description string  `json:"description"`
}

// SubItemPatch assigns the non-nil fields.
type SubItemPatch struct {
	Name        *string  `json:"name,omitempty"`
	UnitCount   *int     `json:"unit_count,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// SubItemEditor owns one sub-item: its fields, its facility set and its gallery.
type SubItemEditor struct {
	fields     SubItemFields
	facilities map[string]struct{}
	arena      *media.Arena
}

// NewSubItemEditor creates a blank sub-item whose gallery is arena.
func NewSubItemEditor(arena *media.Arena) *SubItemEditor {
	return &SubItemEditor{facilities: make(map[string]struct{}), arena: arena}
}

// Fields returns a copy of the scalar fields.
func (e *SubItemEditor) Fields() SubItemFields { return e.fields }

// Media returns the sub-item gallery.
func (e *SubItemEditor) Media() *media.Arena { return e.arena }

// Apply assigns fields without validating them.
func (e *SubItemEditor) Apply(p SubItemPatch) {
	setString(&e.fields.Name, p.Name)
	setString(&e.fields.Description, p.Description)
	if p.UnitCount != nil {
		e.fields.UnitCount = *p.UnitCount
	}
	if p.UnitPrice != nil {
		e.fields.UnitPrice = *p.UnitPrice
	}
	if p.Capacity != nil {
		e.fields.Capacity = *p.Capacity
	}
}

// ToggleFacility adds the tag if absent and removes it if present.
func (e *SubItemEditor) ToggleFacility(tag string) {
	if tag == "" {
		return
	}
	if _, ok := e.facilities[tag]; ok {
		delete(e.facilities, tag)
		return
	}
	e.facilities[tag] = struct{}{}
}

// AddCustomFacility adds a user-typed tag. Blank input is ignored and an
// existing tag is left in place.
func (e *SubItemEditor) AddCustomFacility(text string) {
	tag := strings.TrimSpace(text)
	if tag == "" {
		return
	}
	e.facilities[tag] = struct{}{}
}

// HasFacility reports whether the tag is set.
func (e *SubItemEditor) HasFacility(tag string) bool {
	_, ok := e.facilities[tag]
	return ok
}

// Facilities returns the tags in sorted order.
func (e *SubItemEditor) Facilities() []string {
	tags := make([]string, 0, len(e.facilities))
	for tag := range e.facilities {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Validate returns the first failing rule, or nil.
func (e *SubItemEditor) Validate() *ValidationError {
	if errs := e.ValidateAll(); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ValidateAll returns every failing rule in display order.
func (e *SubItemEditor) ValidateAll() []*ValidationError {
	errs := e.validateFields()
	if e.arena.Len() == 0 {
		errs = append(errs, invalid("images", "At least one image is required"))
	}
	return errs
}

func (e *SubItemEditor) validateFields() []*ValidationError {
	var errs []*ValidationError
	if strings.TrimSpace(e.fields.Name) == "" {
		errs = append(errs, invalid("name", "Name is required"))
	}
	if e.fields.UnitCount < 1 {
		errs = append(errs, invalid("unit_count", "Unit count must be at least 1"))
	}
	if e.fields.UnitPrice <= 0 {
		errs = append(errs, invalid("unit_price", "Unit price must be greater than 0"))
	}
	if e.fields.Capacity < 0 {
		errs = append(errs, invalid("capacity", "Capacity cannot be negative"))
	}
	return errs
}

// load copies a persisted sub-item into the editor.
func (e *SubItemEditor) load(rec model.SubItemRecord) error {
	e.fields = SubItemFields{
		ID:          rec.ID,
		Name:        rec.Name,
		UnitCount:   rec.UnitCount,
		UnitPrice:   rec.UnitPrice,
		Capacity:    rec.Capacity,
		Description: rec.Description,
	}
	for _, tag := range rec.Facilities {
		e.AddCustomFacility(tag)
	}
	return e.arena.AddPersisted(rec.Images...)
}

// SubItemView is a read-only description of a sub-item.
type SubItemView struct {
	Index      int               `json:"index"`
	Fields     SubItemFields     `json:"fields"`
	Facilities []string          `json:"facilities"`
	Media      []media.AssetView `json:"media"`
}

func (e *SubItemEditor) view(i int) SubItemView {
	return SubItemView{Index: i, Fields: e.fields, Facilities: e.Facilities(), Media: e.arena.Views()}
}
