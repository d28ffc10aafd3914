// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "fmt"

// Kind identifies which marketplace listing a form produces.
type Kind string

// Listing kinds
const (
	KindHotel         Kind = "hotel"
	KindVehicleRental Kind = "vehicle_rental"
)

// ParseKind converts a request value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindHotel, KindVehicleRental:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown listing kind %q", s)
	}
}

// Collection returns the REST collection name for the kind.
func (k Kind) Collection() string {
	if k == KindVehicleRental {
		return "vehicle-rentals"
	}
	return "hotels"
}

// Approval statuses owned by the marketplace back office.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// IsValidStatus reports whether status is a known review status.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsEditableStatus reports whether an owner may edit a listing in this status.
// Listings under review are locked until an administrator decides.
func IsEditableStatus(status string) bool {
	switch status {
	case StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// RootRecord is a persisted listing (a hotel or a vehicle rental business)
// together with its sub-items.
type RootRecord struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	District     string          `json:"district,omitempty"`
	Description  string          `json:"description"`
	ContactPhone string          `json:"contact_phone"`
	ContactEmail string          `json:"contact_email,omitempty"`
	StarRating   int             `json:"star_rating,omitempty"`
	Flags        map[string]bool `json:"flags,omitempty"`
	Status       string          `json:"status,omitempty"`
	Images       []string        `json:"images"`
	SubItems     []SubItemRecord `json:"sub_items"`
}

// SubItemRecord is one room type of a hotel or one vehicle of a rental business.
type SubItemRecord struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	UnitCount   int      `json:"unit_count"`
	UnitPrice   float64  `json:"unit_price"`
	Capacity    int      `json:"capacity,omitempty"`
	Description string   `json:"description,omitempty"`
	Facilities  []string `json:"facilities"`
	Images      []string `json:"images"`
}
