// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"errors"
	"fmt"
	"strings"
)

// Controller errors
var (
	ErrNotOnCountStep       = errors.New("sub-item count can only be changed on the count step")
	ErrNotOnFinalStep       = errors.New("submit is only available on the final step")
	ErrNoNextStep           = errors.New("already on the final step")
	ErrSubmitInProgress     = errors.New("a submission is already in progress")
	ErrConfirmationRequired = errors.New("no gallery images selected; confirm to continue without images")
	ErrNotEditable          = errors.New("listing is not in an editable state")
	ErrClosed               = errors.New("form is closed")
	ErrSubItemIndex         = errors.New("sub-item index out of range")
)

// ValidationError is a single failed validation rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is an aggregated list of validation failures.
type FieldErrors []*ValidationError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Map returns the errors keyed by field path, keeping the first message per field.
func (fe FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		if _, ok := m[e.Field]; !ok {
			m[e.Field] = e.Message
		}
	}
	return m
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// prefixed rewrites relative field names to an absolute path.
func prefixed(prefix string, errs []*ValidationError) []*ValidationError {
	out := make([]*ValidationError, len(errs))
	for i, e := range errs {
		out[i] = &ValidationError{Field: prefix + "." + e.Field, Message: e.Message}
	}
	return out
}

func subItemPath(i int) string {
	return fmt.Sprintf("sub_items[%d]", i)
}
