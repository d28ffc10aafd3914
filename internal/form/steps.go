// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"fmt"
	"strings"
)

// StepKind identifies a wizard step.
type StepKind string

// Wizard step kinds
const (
	StepBasicInfo    StepKind = "basic_info"
	StepSubItemCount StepKind = "sub_item_count"
	StepSubItem      StepKind = "sub_item"
	StepFinalMedia   StepKind = "final_media"
)

// Step describes one wizard step. Ordinals start at 1.
type Step struct {
	Ordinal     int      `json:"ordinal"`
	Kind        StepKind `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	// SubItem is the zero-based sub-item index of a StepSubItem step.
	SubItem int `json:"sub_item,omitempty"`
}

// DeriveSteps returns the step list for count sub-items: basic info, the
// count step, one step per sub-item and the final gallery step.
func DeriveSteps(s Schema, count int) []Step {
	if count < 0 {
		count = 0
	}
	steps := make([]Step, 0, count+3)
	steps = append(steps,
		Step{Kind: StepBasicInfo, Title: "Basic information",
			Description: fmt.Sprintf("%s name, location and contact details", s.Title)},
		Step{Kind: StepSubItemCount, Title: s.SubItemLabel + "s",
			Description: fmt.Sprintf("How many %ss do you offer?", strings.ToLower(s.SubItemLabel))},
	)
	for i := 0; i < count; i++ {
		steps = append(steps, Step{
			Kind:        StepSubItem,
			Title:       fmt.Sprintf("%s %d", s.SubItemLabel, i+1),
			Description: "Details, facilities and photos",
			SubItem:     i,
		})
	}
	steps = append(steps, Step{Kind: StepFinalMedia, Title: "Gallery",
		Description: fmt.Sprintf("Photos of the %s", strings.ToLower(s.Title))})

	for i := range steps {
		steps[i].Ordinal = i + 1
	}
	return steps
}
