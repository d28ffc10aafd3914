// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps live wizard and edit forms between API calls.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/form"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
)

// Session types
const (
	TypeWizard = "wizard"
	TypeEdit   = "edit"
)

var (
	// ErrNotFound is returned for unknown or expired session ids.
	ErrNotFound = errors.New("session not found")
	// ErrBusy is returned while another call, typically a submit, holds the session.
	ErrBusy = errors.New("session is busy")
	// ErrWrongType is returned when a wizard id is used for an edit route or the reverse.
	ErrWrongType = errors.New("session has a different type")
)

// Session holds one live form. Callers use it between Acquire and the
// returned release function only.
type Session struct {
	ID   string
	Type string

	mu       sync.Mutex
	wizard   *form.Wizard
	edit     *form.Edit
	redirect string
	created  time.Time
	accessed time.Time
}

// Leave implements form.Navigator. The destination is kept for the caller
// to hand to the client.
func (s *Session) Leave(destination string) { s.redirect = destination }

// Redirect returns the destination recorded by a successful submit.
func (s *Session) Redirect() string { return s.redirect }

// Wizard returns the session's wizard, or nil for edit sessions.
func (s *Session) Wizard() *form.Wizard { return s.wizard }

// Edit returns the session's edit form, or nil for wizard sessions.
func (s *Session) Edit() *form.Edit { return s.edit }

// Kind returns the listing kind of the form.
func (s *Session) Kind() model.Kind {
	if s.wizard != nil {
		return s.wizard.Schema().Kind
	}
	return s.edit.Schema().Kind
}

func (s *Session) close() error {
	if s.wizard != nil {
		return s.wizard.Close()
	}
	return s.edit.Close()
}

// Registry maps session ids to live forms.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *slog.Logger
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logger.With("category", model.EventCategorySession),
		now:      time.Now,
	}
}

// AddWizard builds a wizard with the session as its navigator and
// registers it.
func (r *Registry) AddWizard(build func(nav form.Navigator) (*form.Wizard, error)) (*Session, error) {
	s := &Session{Type: TypeWizard}
	w, err := build(s)
	if err != nil {
		return nil, err
	}
	s.wizard = w
	return r.add(s), nil
}

// AddEdit builds an edit form with the session as its navigator and
// registers it.
func (r *Registry) AddEdit(build func(nav form.Navigator) (*form.Edit, error)) (*Session, error) {
	s := &Session{Type: TypeEdit}
	e, err := build(s)
	if err != nil {
		return nil, err
	}
	s.edit = e
	return r.add(s), nil
}

func (r *Registry) add(s *Session) *Session {
	s.ID = ulid.Make().String()
	s.created = r.now()
	s.accessed = s.created

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Info("session created", "session_id", s.ID, "type", s.Type, "kind", string(s.Kind()))
	return s
}

// Acquire locks the session for exclusive use. It fails with ErrBusy rather
// than waiting while another call holds the session. wantType may be empty
// to accept either type.
func (r *Registry) Acquire(id, wantType string) (*Session, func(), error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, ErrNotFound
	}
	if wantType != "" && s.Type != wantType {
		return nil, nil, ErrWrongType
	}
	if !s.mu.TryLock() {
		return nil, nil, ErrBusy
	}

	// The session may have been removed between lookup and lock.
	r.mu.RLock()
	_, still := r.sessions[id]
	r.mu.RUnlock()
	if !still {
		s.mu.Unlock()
		return nil, nil, ErrNotFound
	}

	s.accessed = r.now()
	return s, s.mu.Unlock, nil
}

// Delete closes the session's form, releasing its previews, and forgets it.
// wantType may be empty to accept either type.
func (r *Registry) Delete(id, wantType string) error {
	s, release, err := r.Acquire(id, wantType)
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	if err := s.close(); err != nil {
		r.logger.Warn("failed to close session", "session_id", id, "error", err)
	}
	r.logger.Info("session deleted", "session_id", id)
	return nil
}

// Forget drops a session whose form already closed itself, as after a
// successful submit. The caller must hold the session.
func (r *Registry) Forget(s *Session) {
	r.mu.Lock()
	delete(r.sessions, s.ID)
	r.mu.Unlock()
}

// Sweep closes and removes sessions idle for longer than ttl. Busy sessions
// are skipped. It returns the number of sessions removed.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.RLock()
	var candidates []*Session
	for _, s := range r.sessions {
		candidates = append(candidates, s)
	}
	r.mu.RUnlock()

	removed := 0
	for _, s := range candidates {
		if !s.mu.TryLock() {
			continue
		}
		if s.accessed.After(cutoff) {
			s.mu.Unlock()
			continue
		}
		r.mu.Lock()
		_, present := r.sessions[s.ID]
		delete(r.sessions, s.ID)
		r.mu.Unlock()
		if present {
			if err := s.close(); err != nil {
				r.logger.Warn("failed to close expired session", "session_id", s.ID, "error", err)
			}
			removed++
		}
		s.mu.Unlock()
	}
	if removed > 0 {
		r.logger.Info("expired sessions removed", "count", removed)
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every session. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		if err := s.close(); err != nil {
			r.logger.Warn("failed to close session", "session_id", s.ID, "error", err)
		}
		s.mu.Unlock()
	}
}
