// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"html"
	"maps"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// textSanitizer strips every tag from free text fields before they leave
// the form.
var textSanitizer = bluemonday.StrictPolicy()

// maxTextPasses bounds how many levels of entity encoding plainText unwraps.
const maxTextPasses = 8

// plainText removes markup and returns unescaped, trimmed text. Entity
// encoded markup is unescaped and stripped again until the text is stable;
// text that still changes after maxTextPasses is returned escaped.
func plainText(s string) string {
	for range maxTextPasses {
		next := html.UnescapeString(textSanitizer.Sanitize(s))
		if next == s {
			return strings.TrimSpace(next)
		}
		s = next
	}
	return strings.TrimSpace(textSanitizer.Sanitize(s))
}

// buildRecord assembles the persistence payload from the draft and the
// materialized gallery URLs.
func buildRecord(s Schema, root RootFields, images []string, items []model.SubItemRecord) *model.RootRecord {
	rec := &model.RootRecord{
		Kind:         s.Kind,
		Name:         strings.TrimSpace(root.Name),
		Address:      strings.TrimSpace(root.Address),
		City:         strings.TrimSpace(root.City),
		District:     strings.TrimSpace(root.District),
		Description:  plainText(root.Description),
		ContactPhone: strings.TrimSpace(root.ContactPhone),
		ContactEmail: strings.TrimSpace(root.ContactEmail),
		Flags:        maps.Clone(root.Flags),
		Images:       nonNil(images),
		SubItems:     items,
	}
	if s.RequiresRating {
		rec.StarRating = root.StarRating
	}
	if rec.SubItems == nil {
		rec.SubItems = []model.SubItemRecord{}
	}
	return rec
}

func buildSubItem(e *SubItemEditor, images []string) model.SubItemRecord {
	f := e.fields
	return model.SubItemRecord{
		ID:          f.ID,
		Name:        strings.TrimSpace(f.Name),
		UnitCount:   f.UnitCount,
		UnitPrice:   f.UnitPrice,
		Capacity:    f.Capacity,
		Description: plainText(f.Description),
		Facilities:  e.Facilities(),
		Images:      nonNil(images),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
