// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that also writes WARN and above
// to the events table.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/store"
)

// CategoryKey is the attribute naming an event's category.
const CategoryKey = "category"

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the event log.
type EventLogHandler struct {
	inner    slog.Handler
	queries  *store.Queries
	level    slog.Level
	category string
	attrs    []slog.Attr
	group    string
}

// NewEventLogHandler creates an EventLogHandler forwarding WARN and above.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates an EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeToEventLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler. A category attribute given here applies
// to every record logged through the returned handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		if a.Key == CategoryKey && h.group == "" {
			c.category = a.Value.String()
			continue
		}
		c.attrs = append(c.attrs, h.qualify(a))
	}
	return c
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithGroup(name)
	if name != "" {
		if c.group != "" {
			c.group += "." + name
		} else {
			c.group = name
		}
	}
	return c
}

func (h *EventLogHandler) clone() *EventLogHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	return &c
}

func (h *EventLogHandler) qualify(a slog.Attr) slog.Attr {
	if h.group == "" {
		return a
	}
	return slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
}

// writeToEventLog uses a background context so the event survives a
// cancelled request.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  h.extractCategory(r),
		Message:   r.Message,
		Metadata:  h.extractMetadata(r),
		CreatedAt: r.Time,
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory prefers a category attribute on the record, then one bound
// with WithAttrs, then infers it from the message.
func (h *EventLogHandler) extractCategory(r slog.Record) string {
	category := h.category
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == CategoryKey && h.group == "" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}
	return inferCategory(r.Message)
}

func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "wizard") || strings.Contains(msg, "step"):
		return model.EventCategoryWizard
	case strings.Contains(msg, "edit"):
		return model.EventCategoryEdit
	case strings.Contains(msg, "upload") || strings.Contains(msg, "preview") || strings.Contains(msg, "gallery"):
		return model.EventCategoryUpload
	case strings.Contains(msg, "backend") || strings.Contains(msg, "persist") || strings.Contains(msg, "listing"):
		return model.EventCategoryBackend
	case strings.Contains(msg, "session"):
		return model.EventCategorySession
	default:
		return model.EventCategorySystem
	}
}

// extractMetadata renders bound and record attributes as a JSON object of
// strings.
func (h *EventLogHandler) extractMetadata(r slog.Record) string {
	meta := make(map[string]string, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		meta[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == CategoryKey && h.group == "" {
			return true
		}
		a = h.qualify(a)
		meta[a.Key] = a.Value.String()
		return true
	})
	if len(meta) == 0 {
		return "{}"
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(b)
}
