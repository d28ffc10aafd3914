// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"maps"
	"net/mail"
	"strings"
)

// RootFields are the scalar fields of a listing.
type RootFields struct {
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	District     string          `json:"district"`
	Description  string          `json:"description"`
	ContactPhone string          `json:"contact_phone"`
	ContactEmail string          `json:"contact_email"`
	StarRating   int             `json:"star_rating"`
	Flags        map[string]bool `json:"flags"`
}

// RootPatch assigns the non-nil fields. Flags are merged key by key.
type RootPatch struct {
	Name         *string         `json:"name,omitempty"`
	Address      *string         `json:"address,omitempty"`
	City         *string         `json:"city,omitempty"`
	District     *string         `json:"district,omitempty"`
	Description  *string         `json:"description,omitempty"`
	ContactPhone *string         `json:"contact_phone,omitempty"`
	ContactEmail *string         `json:"contact_email,omitempty"`
	StarRating   *int            `json:"star_rating,omitempty"`
	Flags        map[string]bool `json:"flags,omitempty"`
}

func (f *RootFields) apply(p RootPatch) {
	setString(&f.Name, p.Name)
	setString(&f.Address, p.Address)
	setString(&f.City, p.City)
	setString(&f.District, p.District)
	setString(&f.Description, p.Description)
	setString(&f.ContactPhone, p.ContactPhone)
	setString(&f.ContactEmail, p.ContactEmail)
	if p.StarRating != nil {
		f.StarRating = *p.StarRating
	}
	if len(p.Flags) > 0 {
		if f.Flags == nil {
			f.Flags = make(map[string]bool, len(p.Flags))
		}
		maps.Copy(f.Flags, p.Flags)
	}
}

func (f RootFields) clone() RootFields {
	f.Flags = maps.Clone(f.Flags)
	return f
}

// validateRoot checks the required listing fields in display order.
func validateRoot(s Schema, f RootFields) []*ValidationError {
	var errs []*ValidationError
	required := []struct {
		field, label, value string
	}{
		{"name", "Name", f.Name},
		{"address", "Address", f.Address},
		{"city", "City", f.City},
		{"description", "Description", f.Description},
		{"contact_phone", "Contact phone", f.ContactPhone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, invalid(r.field, r.label+" is required"))
		}
	}
	if f.ContactEmail != "" {
		if _, err := mail.ParseAddress(f.ContactEmail); err != nil {
			errs = append(errs, invalid("contact_email", "Contact email is not a valid address"))
		}
	}
	if s.RequiresRating && (f.StarRating < 1 || f.StarRating > 5) {
		errs = append(errs, invalid("star_rating", "Star rating must be between 1 and 5"))
	}
	return errs
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
