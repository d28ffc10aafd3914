// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func TestIsSupportedImageType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"application/pdf", false},
		{"video/mp4", false},
		{"text/plain", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsSupportedImageType(tt.mimeType); got != tt.want {
				t.Errorf("IsSupportedImageType(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestMimeTypeFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"room.jpg", MimeTypeJPEG},
		{"ROOM.JPEG", MimeTypeJPEG},
		{"van.png", MimeTypePNG},
		{"anim.gif", MimeTypeGIF},
		{"front.webp", MimeTypeWebP},
		{"notes.txt", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MimeTypeFromExtension(tt.filename); got != tt.want {
			t.Errorf("MimeTypeFromExtension(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestExtensionForMimeType(t *testing.T) {
	for _, mt := range SupportedImageTypes() {
		ext := ExtensionForMimeType(mt)
		if got := MimeTypeFromExtension("x" + ext); got != mt {
			t.Errorf("extension %q for %q maps back to %q", ext, mt, got)
		}
	}
	if got := ExtensionForMimeType("text/plain"); got != ".bin" {
		t.Errorf("ExtensionForMimeType(text/plain) = %q, want .bin", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"hotel", KindHotel, false},
		{"vehicle_rental", KindVehicleRental, false},
		{"castle", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollection(t *testing.T) {
	if got := KindHotel.Collection(); got != "hotels" {
		t.Errorf("KindHotel.Collection() = %q, want hotels", got)
	}
	if got := KindVehicleRental.Collection(); got != "vehicle-rentals" {
		t.Errorf("KindVehicleRental.Collection() = %q, want vehicle-rentals", got)
	}
}

func TestIsEditableStatus(t *testing.T) {
	tests := map[string]bool{
		StatusApproved: true,
		StatusRejected: true,
		StatusPending:  false,
		"":             false,
	}
	for status, want := range tests {
		if got := IsEditableStatus(status); got != want {
			t.Errorf("IsEditableStatus(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	tests := map[string]bool{
		StatusApproved: true,
		StatusRejected: true,
		StatusPending:  true,
		"published":    false,
		"":             false,
	}
	for status, want := range tests {
		if got := IsValidStatus(status); got != want {
			t.Errorf("IsValidStatus(%q) = %v, want %v", status, got, want)
		}
	}
}
