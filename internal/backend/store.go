// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/model"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/store"
)

// Store keeps listings in the local sqlite database. New listings start in
// pending status; an owner edit sends the listing back to pending review.
type Store struct {
	db      *sql.DB
	queries *store.Queries
	now     func() time.Time
}

// NewStore creates a Store on db. The schema must already be migrated.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, queries: store.New(db), now: time.Now}
}

// Create implements Backend.
func (s *Store) Create(ctx context.Context, rec *model.RootRecord) (*model.RootRecord, error) {
	if _, err := model.ParseKind(string(rec.Kind)); err != nil {
		return nil, &PersistenceError{Op: "create", Message: err.Error()}
	}
	id := uuid.NewString()
	now := s.now()

	err := s.inTx(ctx, func(q *store.Queries) error {
		row, err := listingRow(rec)
		if err != nil {
			return err
		}
		row.ID = id
		row.Status = model.StatusPending
		row.CreatedAt = now
		row.UpdatedAt = now
		if err := q.CreateListing(ctx, row); err != nil {
			return fmt.Errorf("inserting listing: %w", err)
		}
		return writeChildren(ctx, q, id, rec)
	})
	if err != nil {
		return nil, &PersistenceError{Op: "create", Err: err}
	}
	return s.Get(ctx, rec.Kind, id)
}

// Update implements Backend.
func (s *Store) Update(ctx context.Context, id string, rec *model.RootRecord) (*model.RootRecord, error) {
	now := s.now()
	err := s.inTx(ctx, func(q *store.Queries) error {
		row, err := listingRow(rec)
		if err != nil {
			return err
		}
		row.ID = id
		row.UpdatedAt = now
		n, err := q.UpdateListing(ctx, row)
		if err != nil {
			return fmt.Errorf("updating listing: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		if _, err := q.SetListingStatus(ctx, id, model.StatusPending, now); err != nil {
			return fmt.Errorf("resetting status: %w", err)
		}
		if err := q.DeleteListingImages(ctx, id); err != nil {
			return fmt.Errorf("clearing images: %w", err)
		}
		if err := q.DeleteSubItems(ctx, id); err != nil {
			return fmt.Errorf("clearing sub-items: %w", err)
		}
		return writeChildren(ctx, q, id, rec)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, &PersistenceError{Op: "update", Message: ErrNotFound.Error(), Err: err}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "update", Err: err}
	}
	return s.Get(ctx, rec.Kind, id)
}

// Get implements Backend.
func (s *Store) Get(ctx context.Context, kind model.Kind, id string) (*model.RootRecord, error) {
	row, err := s.queries.GetListing(ctx, id, string(kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}
	subs, err := s.queries.ListSubItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading sub-items: %w", err)
	}
	images, err := s.queries.ListListingImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading images: %w", err)
	}
	return assemble(row, subs, images)
}

// SetStatus records a back-office approval decision.
func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	n, err := s.queries.SetListingStatus(ctx, id, status, s.now())
	if err != nil {
		return fmt.Errorf("setting status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(s.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func listingRow(rec *model.RootRecord) (store.Listing, error) {
	flags, err := json.Marshal(nonNilFlags(rec.Flags))
	if err != nil {
		return store.Listing{}, err
	}
	return store.Listing{
		Kind:         string(rec.Kind),
		Name:         rec.Name,
		Address:      rec.Address,
		City:         rec.City,
		District:     rec.District,
		Description:  rec.Description,
		ContactPhone: rec.ContactPhone,
		ContactEmail: rec.ContactEmail,
		StarRating:   int64(rec.StarRating),
		Flags:        string(flags),
	}, nil
}

func writeChildren(ctx context.Context, q *store.Queries, listingID string, rec *model.RootRecord) error {
	for i, url := range rec.Images {
		if err := q.CreateListingImage(ctx, store.ListingImage{ListingID: listingID, Position: int64(i), URL: url}); err != nil {
			return fmt.Errorf("inserting image: %w", err)
		}
	}
	for i, sub := range rec.SubItems {
		subID := sub.ID
		if subID == "" {
			subID = uuid.NewString()
		}
		facilities, err := json.Marshal(nonNilStrings(sub.Facilities))
		if err != nil {
			return err
		}
		err = q.CreateSubItem(ctx, store.SubItem{
			ID:          subID,
			ListingID:   listingID,
			Position:    int64(i),
			Name:        sub.Name,
			UnitCount:   int64(sub.UnitCount),
			UnitPrice:   sub.UnitPrice,
			Capacity:    int64(sub.Capacity),
			Description: sub.Description,
			Facilities:  string(facilities),
		})
		if err != nil {
			return fmt.Errorf("inserting sub-item %d: %w", i, err)
		}
		for j, url := range sub.Images {
			img := store.ListingImage{
				ListingID: listingID,
				SubItemID: sql.NullString{String: subID, Valid: true},
				Position:  int64(j),
				URL:       url,
			}
			if err := q.CreateListingImage(ctx, img); err != nil {
				return fmt.Errorf("inserting sub-item image: %w", err)
			}
		}
	}
	return nil
}

func assemble(row store.Listing, subs []store.SubItem, images []store.ListingImage) (*model.RootRecord, error) {
	rec := &model.RootRecord{
		ID:           row.ID,
		Kind:         model.Kind(row.Kind),
		Name:         row.Name,
		Address:      row.Address,
		City:         row.City,
		District:     row.District,
		Description:  row.Description,
		ContactPhone: row.ContactPhone,
		ContactEmail: row.ContactEmail,
		StarRating:   int(row.StarRating),
		Status:       row.Status,
		Images:       []string{},
		SubItems:     make([]model.SubItemRecord, 0, len(subs)),
	}
	if err := json.Unmarshal([]byte(row.Flags), &rec.Flags); err != nil {
		return nil, fmt.Errorf("decoding flags: %w", err)
	}
	if len(rec.Flags) == 0 {
		rec.Flags = nil
	}

	bySub := make(map[string][]string)
	for _, img := range images {
		if img.SubItemID.Valid {
			bySub[img.SubItemID.String] = append(bySub[img.SubItemID.String], img.URL)
			continue
		}
		rec.Images = append(rec.Images, img.URL)
	}
	for _, s := range subs {
		item := model.SubItemRecord{
			ID:          s.ID,
			Name:        s.Name,
			UnitCount:   int(s.UnitCount),
			UnitPrice:   s.UnitPrice,
			Capacity:    int(s.Capacity),
			Description: s.Description,
			Images:      nonNilStrings(bySub[s.ID]),
		}
		if err := json.Unmarshal([]byte(s.Facilities), &item.Facilities); err != nil {
			return nil, fmt.Errorf("decoding facilities: %w", err)
		}
		item.Facilities = nonNilStrings(item.Facilities)
		rec.SubItems = append(rec.SubItems, item)
	}
	return rec, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilFlags(m map[string]bool) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	return m
}
