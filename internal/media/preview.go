// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import "context"

// File is a locally selected file that has not been uploaded yet.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// Uploader stores a file remotely and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file File) (string, error)
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(ctx context.Context, file File) (string, error)

// Upload calls f(ctx, file).
func (f UploaderFunc) Upload(ctx context.Context, file File) (string, error) {
	return f(ctx, file)
}

// Preview is a revocable local resource used to display a staged file
// before it is uploaded.
type Preview interface {
	// Handle identifies the preview for presentation (a URL path or file name).
	Handle() string
	// Release frees the resource. Arenas call it exactly once per preview.
	Release() error
}

// PreviewFactory creates previews for newly staged files.
type PreviewFactory interface {
	CreatePreview(file File) (Preview, error)
}

// NoPreviews is a PreviewFactory whose previews hold no resources.
type NoPreviews struct{}

// CreatePreview implements PreviewFactory.
func (NoPreviews) CreatePreview(File) (Preview, error) {
	return emptyPreview{}, nil
}

type emptyPreview struct{}

func (emptyPreview) Handle() string { return "" }
func (emptyPreview) Release() error { return nil }
