// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/form"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

type nopBackend struct{}

func (nopBackend) Create(_ context.Context, rec *model.RootRecord) (*model.RootRecord, error) {
	return rec, nil
}

func (nopBackend) Update(_ context.Context, _ string, rec *model.RootRecord) (*model.RootRecord, error) {
	return rec, nil
}

type countingPreviews struct{ live atomic.Int64 }

func (p *countingPreviews) CreatePreview(media.File) (media.Preview, error) {
	p.live.Add(1)
	return &countedPreview{p: p}, nil
}

type countedPreview struct{ p *countingPreviews }

func (c *countedPreview) Handle() string { return "h" }
func (c *countedPreview) Release() error { c.p.live.Add(-1); return nil }

func newWizard(t *testing.T, r *Registry, previews *countingPreviews) *Session {
	t.Helper()
	up := media.UploaderFunc(func(_ context.Context, f media.File) (string, error) { return "u/" + f.Name, nil })
	s, err := r.AddWizard(func(nav form.Navigator) (*form.Wizard, error) {
		w, err := form.NewWizard(model.KindHotel, nopBackend{}, form.Options{
			NewArena:  func() *media.Arena { return media.NewArena(up, media.WithPreviews(previews)) },
			Navigator: nav,
		})
		if err != nil {
			return nil, err
		}
		_, err = w.AddMedia(form.RootOwner, media.File{Name: "a.jpg", ContentType: model.MimeTypeJPEG, Data: []byte{1}})
		return w, err
	})
	require.NoError(t, err)
	return s
}

func TestAcquireAndRelease(t *testing.T) {
	r := NewRegistry(nil)
	s := newWizard(t, r, &countingPreviews{})
	require.Len(t, s.ID, 26)

	got, release, err := r.Acquire(s.ID, TypeWizard)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, model.KindHotel, got.Kind())

	_, _, err = r.Acquire(s.ID, TypeWizard)
	assert.ErrorIs(t, err, ErrBusy)

	release()
	_, release, err = r.Acquire(s.ID, "")
	require.NoError(t, err)
	release()
}

func TestAcquireErrors(t *testing.T) {
	r := NewRegistry(nil)
	s := newWizard(t, r, &countingPreviews{})

	_, _, err := r.Acquire("missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = r.Acquire(s.ID, TypeEdit)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestDeleteReleasesPreviews(t *testing.T) {
	previews := &countingPreviews{}
	r := NewRegistry(nil)
	s := newWizard(t, r, previews)
	require.EqualValues(t, 1, previews.live.Load())

	require.NoError(t, r.Delete(s.ID, TypeWizard))
	assert.EqualValues(t, 0, previews.live.Load())
	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, r.Delete(s.ID, TypeWizard), ErrNotFound)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	previews := &countingPreviews{}
	r := NewRegistry(nil)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	old := newWizard(t, r, previews)
	now = now.Add(90 * time.Minute)
	fresh := newWizard(t, r, previews)
	busy := newWizard(t, r, previews)
	busy.accessed = old.accessed
	_, release, err := r.Acquire(busy.ID, "")
	require.NoError(t, err)
	busy.accessed = old.accessed

	now = now.Add(40 * time.Minute)
	removed := r.Sweep(time.Hour)

	assert.Equal(t, 1, removed)
	assert.EqualValues(t, 2, previews.live.Load())
	_, _, err = r.Acquire(old.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, rel, err := r.Acquire(fresh.ID, "")
	require.NoError(t, err)
	rel()

	release()
	assert.Equal(t, 1, r.Sweep(time.Hour), "released idle session is swept next time")
}

func TestForgetAndCloseAll(t *testing.T) {
	previews := &countingPreviews{}
	r := NewRegistry(nil)
	a := newWizard(t, r, previews)
	newWizard(t, r, previews)

	_, release, err := r.Acquire(a.ID, "")
	require.NoError(t, err)
	r.Forget(a)
	release()
	assert.Equal(t, 1, r.Len())

	r.CloseAll()
	assert.Equal(t, 0, r.Len())
	assert.EqualValues(t, 1, previews.live.Load(), "forgotten session keeps its own resources")
}

func TestAddWizardBuildError(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.AddWizard(func(form.Navigator) (*form.Wizard, error) {
		return form.NewWizard("castle", nopBackend{}, form.Options{})
	})
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestSessionRecordsRedirect(t *testing.T) {
	r := NewRegistry(nil)
	s := newWizard(t, r, &countingPreviews{})
	assert.Empty(t, s.Redirect())
	s.Leave("hotel-dashboard")
	assert.Equal(t, "hotel-dashboard", s.Redirect())
}
