// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media manages the gallery of one owner (a listing or one of its
// sub-items): images that are already stored remotely and files that are
// staged locally until the owning form is submitted.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// Upload limits
const (
	MaxImageSize             = 10 * 1024 * 1024 // 10MB
	DefaultUploadConcurrency = 4
)

// AssetKind tells persisted and staged assets apart.
type AssetKind int

const (
	// Persisted assets are already stored remotely and immutable.
	Persisted AssetKind = iota
	// Staged assets are local files waiting to be uploaded.
	Staged
)

func (k AssetKind) String() string {
	if k == Staged {
		return "staged"
	}
	return "persisted"
}

// Asset is one image of an arena.
type Asset struct {
	id      string
	kind    AssetKind
	url     string
	file    File
	preview Preview

	// uploaded is the URL of a previous successful upload of a staged file.
	uploaded string
	released bool
}

// ID returns the synthetic asset id. Ids are never derived from filenames.
func (a *Asset) ID() string { return a.id }

// Kind returns whether the asset is persisted or staged.
func (a *Asset) Kind() AssetKind { return a.kind }

// URL returns the remote URL of a persisted asset.
func (a *Asset) URL() string { return a.url }

// File returns the local file of a staged asset.
func (a *Asset) File() File { return a.file }

// PreviewHandle returns the preview handle of a staged asset.
func (a *Asset) PreviewHandle() string {
	if a.preview == nil || a.released {
		return ""
	}
	return a.preview.Handle()
}

// AssetView is a read-only description of an asset.
type AssetView struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	URL         string `json:"url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Preview     string `json:"preview,omitempty"`
}

// View returns a snapshot of the asset.
func (a *Asset) View() AssetView {
	v := AssetView{ID: a.id, Kind: a.kind.String(), URL: a.url}
	if a.kind == Staged {
		v.Filename = a.file.Name
		v.ContentType = a.file.ContentType
		v.Size = a.file.Size()
		v.Preview = a.PreviewHandle()
	}
	return v
}

// AddResult lists what Add staged and what it refused.
type AddResult struct {
	Added    []*Asset
	Rejected []*RejectedError
}

// Arena is the ordered gallery of one owner. It is not safe for concurrent
// use; the owning controller serialises access.
type Arena struct {
	assets      []*Asset
	uploader    Uploader
	previews    PreviewFactory
	maxSize     int64
	concurrency int
	logger      *slog.Logger
	closed      bool
}

// Option configures an Arena.
type Option func(*Arena)

// WithMaxSize sets the per-file size ceiling.
func WithMaxSize(n int64) Option {
	return func(a *Arena) {
		if n > 0 {
			a.maxSize = n
		}
	}
}

// WithConcurrency bounds the number of uploads Materialize runs at once.
func WithConcurrency(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithPreviews sets the factory used to create previews of staged files.
func WithPreviews(f PreviewFactory) Option {
	return func(a *Arena) {
		if f != nil {
			a.previews = f
		}
	}
}

// WithLogger sets the arena logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewArena creates an empty arena that uploads through u.
func NewArena(u Uploader, opts ...Option) *Arena {
	a := &Arena{
		uploader:    u,
		previews:    NoPreviews{},
		maxSize:     MaxImageSize,
		concurrency: DefaultUploadConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddPersisted appends already-stored images in the given order.
func (a *Arena) AddPersisted(urls ...string) error {
	if a.closed {
		return ErrArenaClosed
	}
	for _, u := range urls {
		if u == "" {
			continue
		}
		a.assets = append(a.assets, &Asset{id: uuid.New().String(), kind: Persisted, url: u})
	}
	return nil
}

// Add validates each file independently and stages the valid ones in
// selection order. Rejected files leave no trace in the arena.
func (a *Arena) Add(files ...File) (AddResult, error) {
	var res AddResult
	if a.closed {
		return res, ErrArenaClosed
	}

	for _, f := range files {
		contentType := detectContentType(f)
		if !model.IsSupportedImageType(contentType) {
			res.Rejected = append(res.Rejected, &RejectedError{
				Filename: f.Name, ContentType: contentType, Size: f.Size(), Reason: ReasonUnsupportedType,
			})
			continue
		}
		if f.Size() == 0 {
			res.Rejected = append(res.Rejected, &RejectedError{
				Filename: f.Name, ContentType: contentType, Reason: ReasonEmpty,
			})
			continue
		}
		if f.Size() > a.maxSize {
			res.Rejected = append(res.Rejected, &RejectedError{
				Filename: f.Name, ContentType: contentType, Size: f.Size(), Limit: a.maxSize, Reason: ReasonTooLarge,
			})
			continue
		}

		f.ContentType = contentType
		preview, err := a.previews.CreatePreview(f)
		if err != nil {
			res.Rejected = append(res.Rejected, &RejectedError{
				Filename: f.Name, ContentType: contentType, Size: f.Size(), Reason: ReasonPreviewFailed, Err: err,
			})
			continue
		}

		asset := &Asset{id: uuid.New().String(), kind: Staged, file: f, preview: preview}
		a.assets = append(a.assets, asset)
		res.Added = append(res.Added, asset)
	}

	return res, nil
}

// Remove drops an asset, releasing its preview if it was staged. Unknown
// ids are ignored. It reports whether an asset was removed; the asset is
// removed even when releasing its preview fails.
func (a *Arena) Remove(id string) (bool, error) {
	for i, asset := range a.assets {
		if asset.id != id {
			continue
		}
		err := a.release(asset)
		a.assets = append(a.assets[:i], a.assets[i+1:]...)
		return true, err
	}
	return false, nil
}

// Materialize uploads every staged file concurrently and returns the
// resulting URLs in insertion order. If any upload fails the whole call
// fails with an *UploadError; staged files stay in the arena either way.
// A file that uploaded successfully before is not uploaded again.
func (a *Arena) Materialize(ctx context.Context) ([]string, error) {
	if a.closed {
		return nil, ErrArenaClosed
	}

	staged := a.staged()
	urls := make([]string, len(staged))
	if len(staged) == 0 {
		return urls, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, asset := range staged {
		if asset.uploaded != "" {
			urls[i] = asset.uploaded
			continue
		}
		g.Go(func() error {
			url, err := a.uploader.Upload(gctx, asset.file)
			if err == nil && url == "" {
				err = errors.New("upload returned an empty URL")
			}
			if err != nil {
				return &UploadError{AssetID: asset.id, Filename: asset.file.Name, Err: err}
			}
			urls[i] = url
			return nil
		})
	}
	err := g.Wait()

	for i, asset := range staged {
		if urls[i] != "" {
			asset.uploaded = urls[i]
		}
	}
	if err != nil {
		a.logger.Warn("media upload failed", "category", model.EventCategoryUpload, "error", err)
		return nil, err
	}
	return urls, nil
}

// Assets returns the arena's assets in order.
func (a *Arena) Assets() []*Asset {
	out := make([]*Asset, len(a.assets))
	copy(out, a.assets)
	return out
}

// Views returns snapshots of the arena's assets in order.
func (a *Arena) Views() []AssetView {
	out := make([]AssetView, 0, len(a.assets))
	for _, asset := range a.assets {
		out = append(out, asset.View())
	}
	return out
}

// PersistedURLs returns the URLs of persisted assets in order.
func (a *Arena) PersistedURLs() []string {
	urls := make([]string, 0, len(a.assets))
	for _, asset := range a.assets {
		if asset.kind == Persisted {
			urls = append(urls, asset.url)
		}
	}
	return urls
}

// Len returns the number of assets of both kinds.
func (a *Arena) Len() int { return len(a.assets) }

// StagedCount returns the number of staged assets.
func (a *Arena) StagedCount() int { return len(a.staged()) }

// Close releases every remaining preview. The arena cannot be used afterwards.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	for _, asset := range a.assets {
		if err := a.release(asset); err != nil {
			errs = append(errs, err)
		}
	}
	a.assets = nil
	return errors.Join(errs...)
}

func (a *Arena) staged() []*Asset {
	var out []*Asset
	for _, asset := range a.assets {
		if asset.kind == Staged {
			out = append(out, asset)
		}
	}
	return out
}

func (a *Arena) release(asset *Asset) error {
	if asset.kind != Staged || asset.released || asset.preview == nil {
		return nil
	}
	asset.released = true
	if err := asset.preview.Release(); err != nil {
		return fmt.Errorf("releasing preview of %s: %w", asset.file.Name, err)
	}
	return nil
}

// detectContentType prefers the declared type and falls back to the extension.
func detectContentType(f File) string {
	if f.ContentType != "" {
		if mt, _, err := mime.ParseMediaType(f.ContentType); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	return model.MimeTypeFromExtension(f.Name)
}
