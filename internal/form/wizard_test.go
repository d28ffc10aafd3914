// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// advanceToCount fills the basic step and moves to the count step.
func advanceToCount(t *testing.T, w *Wizard) {
	t.Helper()
	mustNoErr(t, w.UpdateRoot(hotelBasics()))
	mustNoErr(t, w.Next())
	if w.Current().Kind != StepSubItemCount {
		t.Fatalf("Current() = %s, want count step", w.Current().Kind)
	}
}

func TestWizardCreatesHotelWithTwoRoomTypes(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	advanceToCount(t, w)

	mustNoErr(t, w.SetCount(2))
	mustNoErr(t, w.Next())

	mustNoErr(t, w.UpdateSubItem(0, roomPatch("Standard", 5, 50)))
	mustNoErr(t, w.ToggleFacility(0, "wifi"))
	_, err := w.AddMedia(0, image("standard.jpg"))
	mustNoErr(t, err)
	mustNoErr(t, w.Next())

	mustNoErr(t, w.UpdateSubItem(1, roomPatch("Deluxe", 2, 120)))
	_, err = w.AddMedia(1, image("deluxe.jpg"))
	mustNoErr(t, err)
	mustNoErr(t, w.Next())

	if w.Current().Kind != StepFinalMedia {
		t.Fatalf("Current() = %s, want final step", w.Current().Kind)
	}
	_, err = w.AddMedia(RootOwner, image("front.jpg"))
	mustNoErr(t, err)

	rec, err := w.Submit(context.Background(), SubmitOptions{})
	mustNoErr(t, err)

	if len(e.backend.created) != 1 {
		t.Fatalf("create calls = %d, want 1", len(e.backend.created))
	}
	got := e.backend.created[0]
	want := &model.RootRecord{
		Kind:         model.KindHotel,
		Name:         "Lagoon View",
		Address:      "12 Beach Road",
		City:         "Galle",
		Description:  "Quiet rooms by the sea",
		ContactPhone: "+94 77 123 4567",
		StarRating:   4,
		Images:       []string{"https://cdn.test/front.jpg"},
		SubItems: []model.SubItemRecord{
			{Name: "Standard", UnitCount: 5, UnitPrice: 50, Facilities: []string{"wifi"},
				Images: []string{"https://cdn.test/standard.jpg"}},
			{Name: "Deluxe", UnitCount: 2, UnitPrice: 120, Facilities: []string{},
				Images: []string{"https://cdn.test/deluxe.jpg"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("create payload mismatch (-want +got):\n%s", diff)
	}

	if rec.ID != "hotel-1" {
		t.Errorf("record ID = %q, want %q", rec.ID, "hotel-1")
	}
	if w.Phase() != PhaseSucceeded {
		t.Errorf("Phase() = %s, want %s", w.Phase(), PhaseSucceeded)
	}
	if len(e.left) != 1 || e.left[0] != "hotel-dashboard" {
		t.Errorf("navigator calls = %v, want [hotel-dashboard]", e.left)
	}
	if e.previews.live() != 0 {
		t.Errorf("live previews = %d after success, want 0", e.previews.live())
	}
	if err := w.UpdateRoot(RootPatch{Name: ptr("x")}); !errors.Is(err, ErrClosed) {
		t.Errorf("UpdateRoot after success error = %v, want ErrClosed", err)
	}
}

func TestWizardShrinkKeepsLeadingSubItems(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	advanceToCount(t, w)

	mustNoErr(t, w.SetCount(3))
	mustNoErr(t, w.Next())
	mustNoErr(t, w.UpdateSubItem(0, roomPatch("Standard", 5, 50)))
	_, _ = w.AddMedia(0, image("a.jpg"))
	mustNoErr(t, w.Next())
	_, _ = w.AddMedia(1, image("b.jpg"))
	mustNoErr(t, w.Prev())
	mustNoErr(t, w.Prev())

	if e.previews.live() != 2 {
		t.Fatalf("live previews = %d, want 2", e.previews.live())
	}
	mustNoErr(t, w.SetCount(1))
	mustNoErr(t, w.Next())

	if got := len(w.Steps()); got != 4 {
		t.Errorf("len(Steps()) = %d, want 4", got)
	}
	if w.Current().Kind != StepSubItem || w.Current().SubItem != 0 {
		t.Errorf("Current() = %+v, want sub-item step 0", w.Current())
	}
	item, err := w.SubItem(0)
	mustNoErr(t, err)
	if f := item.Fields(); f.Name != "Standard" || f.UnitCount != 5 || f.UnitPrice != 50 {
		t.Errorf("sub-item 0 fields = %+v, want entered data kept", f)
	}
	if item.Media().Len() != 1 {
		t.Errorf("sub-item 0 media = %d, want 1", item.Media().Len())
	}
	if e.previews.live() != 1 {
		t.Errorf("live previews = %d, want 1 (truncated gallery released)", e.previews.live())
	}
	if _, err := w.SubItem(1); !errors.Is(err, ErrSubItemIndex) {
		t.Errorf("SubItem(1) error = %v, want ErrSubItemIndex", err)
	}
}

func TestWizardNextBlocksSubItemWithoutMedia(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	advanceToCount(t, w)
	mustNoErr(t, w.Next())

	mustNoErr(t, w.UpdateSubItem(0, roomPatch("Standard", 5, 50)))
	before := w.Current()
	item, _ := w.SubItem(0)
	fields := item.Fields()

	err := w.Next()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Next() error = %v, want *ValidationError", err)
	}
	if verr.Field != "sub_items[0].images" {
		t.Errorf("Field = %q, want %q", verr.Field, "sub_items[0].images")
	}
	if w.Current() != before {
		t.Errorf("Current() moved to %+v", w.Current())
	}
	if item.Fields() != fields {
		t.Errorf("sub-item fields changed to %+v", item.Fields())
	}
}

func TestWizardBasicInfoValidation(t *testing.T) {
	tests := []struct {
		name  string
		patch RootPatch
		field string
	}{
		{"missing name", RootPatch{Name: ptr("  ")}, "name"},
		{"missing city", RootPatch{City: ptr("")}, "city"},
		{"rating too high", RootPatch{StarRating: ptr(6)}, "star_rating"},
		{"rating unset", RootPatch{StarRating: ptr(0)}, "star_rating"},
		{"bad email", RootPatch{ContactEmail: ptr("not-an-email")}, "contact_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newEnv().wizard(t, model.KindHotel)
			mustNoErr(t, w.UpdateRoot(hotelBasics()))
			mustNoErr(t, w.UpdateRoot(tt.patch))

			err := w.Next()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Next() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if w.Current().Kind != StepBasicInfo {
				t.Errorf("Current() = %s, want basic info", w.Current().Kind)
			}
		})
	}
}

func TestVehicleWizardIgnoresRating(t *testing.T) {
	w := newEnv().wizard(t, model.KindVehicleRental)
	patch := hotelBasics()
	patch.StarRating = nil
	mustNoErr(t, w.UpdateRoot(patch))
	mustNoErr(t, w.Next())
}

func TestWizardCountRules(t *testing.T) {
	w := newEnv().wizard(t, model.KindHotel)

	if err := w.SetCount(2); !errors.Is(err, ErrNotOnCountStep) {
		t.Errorf("SetCount on basic step error = %v, want ErrNotOnCountStep", err)
	}
	advanceToCount(t, w)

	var verr *ValidationError
	if err := w.SetCount(-1); !errors.As(err, &verr) {
		t.Errorf("SetCount(-1) error = %v, want *ValidationError", err)
	}
	if err := w.SetCount(MaxSubItems + 1); !errors.As(err, &verr) {
		t.Errorf("SetCount(max+1) error = %v, want *ValidationError", err)
	}

	mustNoErr(t, w.SetCount(0))
	if got := len(w.Steps()); got != 3 {
		t.Errorf("len(Steps()) = %d, want 3", got)
	}
	if err := w.Next(); !errors.As(err, &verr) || verr.Field != "count" {
		t.Errorf("Next() with count 0 error = %v, want count validation", err)
	}
}

func TestWizardPrevStopsAtFirstStep(t *testing.T) {
	w := newEnv().wizard(t, model.KindHotel)
	mustNoErr(t, w.Prev())
	mustNoErr(t, w.Prev())
	if w.Current().Ordinal != 1 {
		t.Errorf("Current().Ordinal = %d, want 1", w.Current().Ordinal)
	}
}

// completeWizard brings a one-room wizard to the final step.
func completeWizard(t *testing.T, w *Wizard) {
	t.Helper()
	advanceToCount(t, w)
	mustNoErr(t, w.Next())
	mustNoErr(t, w.UpdateSubItem(0, roomPatch("Standard", 5, 50)))
	_, err := w.AddMedia(0, image("room.jpg"))
	mustNoErr(t, err)
	mustNoErr(t, w.Next())
}

func TestWizardSubmitRequiresConfirmationForEmptyGallery(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	completeWizard(t, w)

	if _, err := w.Submit(context.Background(), SubmitOptions{}); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("Submit() error = %v, want ErrConfirmationRequired", err)
	}
	if w.Phase() != PhaseEditing || e.uploader.total() != 0 {
		t.Fatalf("unconfirmed submit changed state: phase=%s uploads=%d", w.Phase(), e.uploader.total())
	}

	_, err := w.Submit(context.Background(), SubmitOptions{ConfirmEmptyGallery: true})
	mustNoErr(t, err)
	if got := e.backend.created[0].Images; got == nil || len(got) != 0 {
		t.Errorf("Images = %v, want empty list", got)
	}
}

func TestWizardSubmitOnlyOnFinalStep(t *testing.T) {
	w := newEnv().wizard(t, model.KindHotel)
	if _, err := w.Submit(context.Background(), SubmitOptions{}); !errors.Is(err, ErrNotOnFinalStep) {
		t.Errorf("Submit() error = %v, want ErrNotOnFinalStep", err)
	}
}

func TestWizardSubmitFailsWhenOneUploadFails(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	completeWizard(t, w)
	_, _ = w.AddMedia(RootOwner, image("1.jpg"), image("2.jpg"), image("3.jpg"))
	e.uploader.setFail("2.jpg", true)

	_, err := w.Submit(context.Background(), SubmitOptions{})

	var uploadErr *media.UploadError
	if !errors.As(err, &uploadErr) || uploadErr.Filename != "2.jpg" {
		t.Fatalf("Submit() error = %v, want upload error for 2.jpg", err)
	}
	if w.Phase() != PhaseFailed {
		t.Errorf("Phase() = %s, want %s", w.Phase(), PhaseFailed)
	}
	if len(e.backend.created) != 0 {
		t.Errorf("create calls = %d, want 0", len(e.backend.created))
	}
	if w.Snapshot().LastError == "" {
		t.Error("Snapshot().LastError is empty")
	}
	if len(e.left) != 0 {
		t.Errorf("navigator called on failure: %v", e.left)
	}
}

func TestWizardSubmitRetryKeepsDraft(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	advanceToCount(t, w)
	mustNoErr(t, w.SetCount(2))
	mustNoErr(t, w.Next())
	mustNoErr(t, w.UpdateSubItem(0, roomPatch("Standard", 5, 50)))
	_, _ = w.AddMedia(0, image("standard.jpg"))
	mustNoErr(t, w.Next())
	mustNoErr(t, w.UpdateSubItem(1, roomPatch("Deluxe", 2, 120)))
	_, _ = w.AddMedia(1, image("deluxe.jpg"))
	mustNoErr(t, w.Next())
	_, _ = w.AddMedia(RootOwner, image("front.jpg"))

	// The listing gallery uploads, then the first room type fails.
	e.uploader.setFail("standard.jpg", true)
	if _, err := w.Submit(context.Background(), SubmitOptions{}); err == nil {
		t.Fatal("first Submit() succeeded, want failure")
	}
	if w.Phase() != PhaseFailed {
		t.Fatalf("Phase() = %s, want failed", w.Phase())
	}
	snap := w.Snapshot()
	if len(snap.Gallery) != 1 || snap.Gallery[0].Filename != "front.jpg" || snap.Gallery[0].Kind != "staged" {
		t.Fatalf("gallery after failure = %+v", snap.Gallery)
	}

	e.uploader.setFail("standard.jpg", false)
	_, err := w.Submit(context.Background(), SubmitOptions{})
	mustNoErr(t, err)

	got := e.backend.created[0]
	if diff := cmp.Diff([]string{"https://cdn.test/front.jpg"}, got.Images); diff != "" {
		t.Errorf("Images mismatch (-want +got):\n%s", diff)
	}
	if got.SubItems[0].Name != "Standard" || got.SubItems[0].Images[0] != "https://cdn.test/standard.jpg" {
		t.Errorf("sub-item 0 = %+v", got.SubItems[0])
	}
	if got.SubItems[1].Name != "Deluxe" || got.SubItems[1].Images[0] != "https://cdn.test/deluxe.jpg" {
		t.Errorf("sub-item 1 = %+v", got.SubItems[1])
	}
	if e.uploader.calls["front.jpg"] != 1 {
		t.Errorf("front.jpg uploaded %d times, want 1", e.uploader.calls["front.jpg"])
	}
}

func TestWizardBackendFailureAllowsRetry(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	completeWizard(t, w)
	_, _ = w.AddMedia(RootOwner, image("front.jpg"))

	e.backend.err = errors.New("listing name already taken")
	_, err := w.Submit(context.Background(), SubmitOptions{})
	if err == nil || w.Phase() != PhaseFailed {
		t.Fatalf("Submit() error = %v phase = %s, want failure", err, w.Phase())
	}
	if w.Snapshot().LastError != "listing name already taken" {
		t.Errorf("LastError = %q", w.Snapshot().LastError)
	}

	mustNoErr(t, w.UpdateRoot(RootPatch{Name: ptr("Lagoon View Resort")}))
	e.backend.err = nil
	_, err = w.Submit(context.Background(), SubmitOptions{})
	mustNoErr(t, err)
	if e.backend.created[0].Name != "Lagoon View Resort" {
		t.Errorf("Name = %q", e.backend.created[0].Name)
	}
}

func TestWizardCloseReleasesPreviews(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	completeWizard(t, w)
	_, _ = w.AddMedia(RootOwner, image("a.jpg"), image("b.jpg"))

	mustNoErr(t, w.Close())
	if e.previews.live() != 0 {
		t.Errorf("live previews = %d, want 0", e.previews.live())
	}
	if err := w.Next(); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() after Close error = %v, want ErrClosed", err)
	}
}

func TestWizardRemoveMedia(t *testing.T) {
	e := newEnv()
	w := e.wizard(t, model.KindHotel)
	res, err := w.AddMedia(RootOwner, image("a.jpg"), image("b.jpg"))
	mustNoErr(t, err)

	ok, err := w.RemoveMedia(RootOwner, res.Added[0].ID())
	mustNoErr(t, err)
	if !ok {
		t.Error("RemoveMedia() = false, want true")
	}
	ok, _ = w.RemoveMedia(RootOwner, res.Added[0].ID())
	if ok {
		t.Error("second RemoveMedia() = true, want false")
	}
	if _, err := w.RemoveMedia(5, "x"); !errors.Is(err, ErrSubItemIndex) {
		t.Errorf("RemoveMedia(5) error = %v, want ErrSubItemIndex", err)
	}
	if e.previews.live() != 1 {
		t.Errorf("live previews = %d, want 1", e.previews.live())
	}
}

func TestNewWizardRejectsUnknownKind(t *testing.T) {
	e := newEnv()
	if _, err := NewWizard("castle", e.backend, e.options()); err == nil {
		t.Error("NewWizard(castle) succeeded")
	}
	if _, err := NewWizard(model.KindHotel, e.backend, Options{}); err == nil {
		t.Error("NewWizard without arena factory succeeded")
	}
}
