// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form implements the listing creation wizard and the listing edit
// form. Both controllers own an in-memory draft tree whose galleries are
// media arenas, and both submit the draft as one persistence request.
package form

import "github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"

// MaxSubItems caps the declared sub-item count.
const MaxSubItems = 50

// Schema describes the kind-specific parts of a listing form.
type Schema struct {
	Kind                model.Kind
	Title               string
	SubItemLabel        string
	PayloadKey          string
	RequiresRating      bool
	SuggestedFacilities []string
	// Dashboard is the navigation destination after a successful submit.
	Dashboard string
}

var schemas = map[model.Kind]Schema{
	model.KindHotel: {
		Kind:           model.KindHotel,
		Title:          "Hotel",
		SubItemLabel:   "Room type",
		PayloadKey:     "room_types",
		RequiresRating: true,
		SuggestedFacilities: []string{
			"wifi", "air_conditioning", "tv", "minibar", "balcony",
			"sea_view", "breakfast", "room_service", "hot_water", "parking",
		},
		Dashboard: "hotel-dashboard",
	},
	model.KindVehicleRental: {
		Kind:         model.KindVehicleRental,
		Title:        "Vehicle rental",
		SubItemLabel: "Vehicle",
		PayloadKey:   "vehicles",
		SuggestedFacilities: []string{
			"air_conditioning", "gps", "bluetooth", "child_seat",
			"driver_included", "automatic", "fuel_included", "insurance",
		},
		Dashboard: "vehicle-dashboard",
	},
}

// SchemaFor returns the schema of a listing kind.
func SchemaFor(kind model.Kind) (Schema, error) {
	s, ok := schemas[kind]
	if !ok {
		_, err := model.ParseKind(string(kind))
		return Schema{}, err
	}
	return s, nil
}
