// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// stubUploader returns a URL derived from the file name and fails for
// names listed in fail.
type stubUploader struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func newStubUploader() *stubUploader {
	return &stubUploader{calls: make(map[string]int), fail: make(map[string]bool)}
}

func (u *stubUploader) Upload(_ context.Context, f media.File) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls[f.Name]++
	if u.fail[f.Name] {
		return "", errors.New("storage unavailable")
	}
	return "https://cdn.test/" + f.Name, nil
}

func (u *stubUploader) setFail(name string, fail bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fail[name] = fail
}

func (u *stubUploader) total() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, c := range u.calls {
		n += c
	}
	return n
}

// trackingPreviews counts created and released previews.
type trackingPreviews struct {
	mu       sync.Mutex
	created  int
	released int
}

func (p *trackingPreviews) CreatePreview(media.File) (media.Preview, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created++
	return &trackedPreview{owner: p}, nil
}

func (p *trackingPreviews) live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created - p.released
}

type trackedPreview struct{ owner *trackingPreviews }

func (t *trackedPreview) Handle() string { return "preview" }

func (t *trackedPreview) Release() error {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	t.owner.released++
	return nil
}

// recordingBackend records create and update payloads.
type recordingBackend struct {
	created []*model.RootRecord
	updated []*model.RootRecord
	err     error
}

func (b *recordingBackend) Create(_ context.Context, rec *model.RootRecord) (*model.RootRecord, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.created = append(b.created, rec)
	out := *rec
	out.ID = "hotel-1"
	out.Status = model.StatusPending
	return &out, nil
}

func (b *recordingBackend) Update(_ context.Context, id string, rec *model.RootRecord) (*model.RootRecord, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.updated = append(b.updated, rec)
	out := *rec
	out.ID = id
	return &out, nil
}

type env struct {
	uploader *stubUploader
	previews *trackingPreviews
	backend  *recordingBackend
	left     []string
}

func newEnv() *env {
	return &env{uploader: newStubUploader(), previews: &trackingPreviews{}, backend: &recordingBackend{}}
}

func (e *env) options() Options {
	return Options{
		NewArena: func() *media.Arena {
			return media.NewArena(e.uploader, media.WithPreviews(e.previews))
		},
		Navigator: NavigatorFunc(func(dest string) { e.left = append(e.left, dest) }),
	}
}

func (e *env) wizard(t *testing.T, kind model.Kind) *Wizard {
	t.Helper()
	w, err := NewWizard(kind, e.backend, e.options())
	if err != nil {
		t.Fatalf("NewWizard: %v", err)
	}
	return w
}

func image(name string) media.File {
	return media.File{Name: name, ContentType: model.MimeTypeJPEG, Data: []byte{0xff, 0xd8, 0xff, 0xe0}}
}

func ptr[T any](v T) *T { return &v }

func hotelBasics() RootPatch {
	return RootPatch{
		Name:         ptr("Lagoon View"),
		Address:      ptr("12 Beach Road"),
		City:         ptr("Galle"),
		Description:  ptr("Quiet rooms <b>by the sea</b>"),
		ContactPhone: ptr("+94 77 123 4567"),
		StarRating:   ptr(4),
	}
}

func roomPatch(name string, count int, price float64) SubItemPatch {
	return SubItemPatch{Name: ptr(name), UnitCount: ptr(count), UnitPrice: ptr(price)}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
