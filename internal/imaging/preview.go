// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging renders preview thumbnails of staged images into a
// local directory using pure Go libraries.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// thumbnailQuality is the JPEG quality of preview files.
const thumbnailQuality = 80

// ErrInvalidHandle is returned by Path for names that are not preview handles.
var ErrInvalidHandle = errors.New("invalid preview handle")

// Previews creates thumbnail files for staged images. It is safe for
// concurrent use by many arenas.
type Previews struct {
	dir  string
	size int
	live atomic.Int64
}

// NewPreviews creates a factory that writes thumbnails into dir.
func NewPreviews(dir string) (*Previews, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	return &Previews{dir: dir, size: model.PreviewSize}, nil
}

// Dir returns the directory holding preview files.
func (p *Previews) Dir() string { return p.dir }

// Live returns the number of previews created and not yet released.
func (p *Previews) Live() int64 { return p.live.Load() }

// CreatePreview decodes the file, applies its EXIF orientation and writes
// a thumbnail no larger than PreviewSize on either side.
func (p *Previews) CreatePreview(f media.File) (media.Preview, error) {
	if detectFormat(f.Data) == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(f.Data)))

	bounds := img.Bounds()
	if bounds.Dx() > p.size || bounds.Dy() > p.size {
		img = imaging.Fit(img, p.size, p.size, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	name := uuid.New().String() + ".jpg"
	path := filepath.Join(p.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to save preview: %w", err)
	}

	p.live.Add(1)
	return &thumbnail{owner: p, name: name, path: path}, nil
}

// Path resolves a preview handle to its file, refusing anything that is
// not a plain file name inside the preview directory.
func (p *Previews) Path(handle string) (string, error) {
	if handle == "" || handle != filepath.Base(handle) || strings.HasPrefix(handle, ".") {
		return "", ErrInvalidHandle
	}
	if filepath.Ext(handle) != ".jpg" {
		return "", ErrInvalidHandle
	}
	if _, err := uuid.Parse(strings.TrimSuffix(handle, ".jpg")); err != nil {
		return "", ErrInvalidHandle
	}
	return filepath.Join(p.dir, handle), nil
}

type thumbnail struct {
	owner *Previews
	name  string
	path  string
}

func (t *thumbnail) Handle() string { return t.name }

func (t *thumbnail) Release() error {
	t.owner.live.Add(-1)
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview: %w", err)
	}
	return nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// detectFormat sniffs the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is refused outright (CVE-2023-36308 in disintegration/imaging).
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}
