// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"errors"
	"fmt"
)

// ErrArenaClosed is returned when an arena is used after Close.
var ErrArenaClosed = errors.New("media arena is closed")

// Rejection reasons reported by Add.
const (
	ReasonUnsupportedType = "unsupported_type"
	ReasonTooLarge        = "too_large"
	ReasonEmpty           = "empty"
	ReasonPreviewFailed   = "preview_failed"
)

// RejectedError reports a file that Add refused to stage.
type RejectedError struct {
	Filename    string
	ContentType string
	Size        int64
	Limit       int64
	Reason      string
	Err         error
}

func (e *RejectedError) Error() string {
	switch e.Reason {
	case ReasonUnsupportedType:
		return fmt.Sprintf("%s: file type %s is not allowed", e.Filename, e.ContentType)
	case ReasonTooLarge:
		return fmt.Sprintf("%s: file size %d exceeds maximum allowed (%d bytes)", e.Filename, e.Size, e.Limit)
	case ReasonEmpty:
		return fmt.Sprintf("%s: file is empty", e.Filename)
	case ReasonPreviewFailed:
		return fmt.Sprintf("%s: failed to create preview: %v", e.Filename, e.Err)
	default:
		return fmt.Sprintf("%s: rejected", e.Filename)
	}
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// UploadError identifies the staged file whose upload failed during Materialize.
type UploadError struct {
	AssetID  string
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
