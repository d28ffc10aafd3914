// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

func TestDeriveStepsCount(t *testing.T) {
	for _, kind := range []model.Kind{model.KindHotel, model.KindVehicleRental} {
		s, err := SchemaFor(kind)
		if err != nil {
			t.Fatal(err)
		}
		for k := 0; k <= 12; k++ {
			steps := DeriveSteps(s, k)
			if len(steps) != k+3 {
				t.Errorf("%s: len(DeriveSteps(%d)) = %d, want %d", kind, k, len(steps), k+3)
				continue
			}
			if steps[0].Kind != StepBasicInfo || steps[1].Kind != StepSubItemCount || steps[k+2].Kind != StepFinalMedia {
				t.Errorf("%s: unexpected step order for k=%d", kind, k)
			}
			for i, step := range steps {
				if step.Ordinal != i+1 {
					t.Errorf("%s: steps[%d].Ordinal = %d", kind, i, step.Ordinal)
				}
			}
			for i := 0; i < k; i++ {
				if steps[i+2].Kind != StepSubItem || steps[i+2].SubItem != i {
					t.Errorf("%s: steps[%d] = %+v, want sub-item %d", kind, i+2, steps[i+2], i)
				}
			}
		}
	}
}

func TestDeriveStepsIsPure(t *testing.T) {
	s, _ := SchemaFor(model.KindHotel)
	if diff := cmp.Diff(DeriveSteps(s, 4), DeriveSteps(s, 4)); diff != "" {
		t.Errorf("DeriveSteps not deterministic:\n%s", diff)
	}
	if got := len(DeriveSteps(s, -3)); got != 3 {
		t.Errorf("len(DeriveSteps(-3)) = %d, want 3", got)
	}
}

func TestDeriveStepsTitles(t *testing.T) {
	s, _ := SchemaFor(model.KindVehicleRental)
	steps := DeriveSteps(s, 2)
	if steps[3].Title != "Vehicle 2" {
		t.Errorf("steps[3].Title = %q, want %q", steps[3].Title, "Vehicle 2")
	}
}

func TestSchemaForUnknownKind(t *testing.T) {
	if _, err := SchemaFor("castle"); err == nil {
		t.Error("SchemaFor(castle) succeeded")
	}
}
