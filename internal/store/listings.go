// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// Listing is a row of the listings table.
type Listing struct {
	ID           string
	Kind         string
	Name         string
	Address      string
	City         string
	District     string
	Description  string
	ContactPhone string
	ContactEmail string
	StarRating   int64
	Flags        string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubItem is a row of the sub_items table.
type SubItem struct {
	ID          string
	ListingID   string
	Position    int64
	Name        string
	UnitCount   int64
	UnitPrice   float64
	Capacity    int64
	Description string
	Facilities  string
}

// ListingImage is a row of the listing_images table. SubItemID is null for
// images of the listing gallery.
type ListingImage struct {
	ID        int64
	ListingID string
	SubItemID sql.NullString
	Position  int64
	URL       string
}

const listingColumns = `id, kind, name, address, city, district, description, contact_phone,
contact_email, star_rating, flags, status, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (Listing, error) {
	var l Listing
	err := row.Scan(&l.ID, &l.Kind, &l.Name, &l.Address, &l.City, &l.District, &l.Description,
		&l.ContactPhone, &l.ContactEmail, &l.StarRating, &l.Flags, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

const createListing = `INSERT INTO listings (` + listingColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateListing inserts a listing row.
func (q *Queries) CreateListing(ctx context.Context, l Listing) error {
	_, err := q.db.ExecContext(ctx, createListing, l.ID, l.Kind, l.Name, l.Address, l.City, l.District,
		l.Description, l.ContactPhone, l.ContactEmail, l.StarRating, l.Flags, l.Status, l.CreatedAt, l.UpdatedAt)
	return err
}

const updateListing = `UPDATE listings
SET name = ?, address = ?, city = ?, district = ?, description = ?, contact_phone = ?,
    contact_email = ?, star_rating = ?, flags = ?, updated_at = ?
WHERE id = ? AND kind = ?`

// UpdateListing replaces the owner-editable columns of a listing and
// returns the number of rows changed. Status is left alone.
func (q *Queries) UpdateListing(ctx context.Context, l Listing) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateListing, l.Name, l.Address, l.City, l.District, l.Description,
		l.ContactPhone, l.ContactEmail, l.StarRating, l.Flags, l.UpdatedAt, l.ID, l.Kind)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const setListingStatus = `UPDATE listings SET status = ?, updated_at = ? WHERE id = ?`

// SetListingStatus changes the approval status of a listing.
func (q *Queries) SetListingStatus(ctx context.Context, id, status string, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, setListingStatus, status, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getListing = `SELECT ` + listingColumns + ` FROM listings WHERE id = ? AND kind = ?`

// GetListing returns one listing of the given kind.
func (q *Queries) GetListing(ctx context.Context, id, kind string) (Listing, error) {
	return scanListing(q.db.QueryRowContext(ctx, getListing, id, kind))
}

const listListings = `SELECT ` + listingColumns + ` FROM listings WHERE kind = ? ORDER BY created_at DESC`

// ListListings returns every listing of a kind, newest first.
func (q *Queries) ListListings(ctx context.Context, kind string) ([]Listing, error) {
	rows, err := q.db.QueryContext(ctx, listListings, kind)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

const createSubItem = `INSERT INTO sub_items
(id, listing_id, position, name, unit_count, unit_price, capacity, description, facilities)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateSubItem inserts a sub-item row.
func (q *Queries) CreateSubItem(ctx context.Context, s SubItem) error {
	_, err := q.db.ExecContext(ctx, createSubItem, s.ID, s.ListingID, s.Position, s.Name, s.UnitCount,
		s.UnitPrice, s.Capacity, s.Description, s.Facilities)
	return err
}

const listSubItems = `SELECT id, listing_id, position, name, unit_count, unit_price, capacity, description, facilities
FROM sub_items WHERE listing_id = ? ORDER BY position`

// ListSubItems returns the sub-items of a listing in position order.
func (q *Queries) ListSubItems(ctx context.Context, listingID string) ([]SubItem, error) {
	rows, err := q.db.QueryContext(ctx, listSubItems, listingID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []SubItem
	for rows.Next() {
		var s SubItem
		if err := rows.Scan(&s.ID, &s.ListingID, &s.Position, &s.Name, &s.UnitCount, &s.UnitPrice,
			&s.Capacity, &s.Description, &s.Facilities); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const deleteSubItems = `DELETE FROM sub_items WHERE listing_id = ?`

// DeleteSubItems removes every sub-item of a listing along with their images.
func (q *Queries) DeleteSubItems(ctx context.Context, listingID string) error {
	_, err := q.db.ExecContext(ctx, deleteSubItems, listingID)
	return err
}

const createListingImage = `INSERT INTO listing_images (listing_id, sub_item_id, position, url) VALUES (?, ?, ?, ?)`

// CreateListingImage inserts an image row.
func (q *Queries) CreateListingImage(ctx context.Context, img ListingImage) error {
	_, err := q.db.ExecContext(ctx, createListingImage, img.ListingID, img.SubItemID, img.Position, img.URL)
	return err
}

const listListingImages = `SELECT id, listing_id, sub_item_id, position, url
FROM listing_images WHERE listing_id = ? ORDER BY position, id`

// ListListingImages returns every image of a listing and its sub-items.
func (q *Queries) ListListingImages(ctx context.Context, listingID string) ([]ListingImage, error) {
	rows, err := q.db.QueryContext(ctx, listListingImages, listingID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ListingImage
	for rows.Next() {
		var img ListingImage
		if err := rows.Scan(&img.ID, &img.ListingID, &img.SubItemID, &img.Position, &img.URL); err != nil {
			return nil, err
		}
		items = append(items, img)
	}
	return items, rows.Err()
}

const deleteListingImages = `DELETE FROM listing_images WHERE listing_id = ?`

// DeleteListingImages removes every image of a listing.
func (q *Queries) DeleteListingImages(ctx context.Context, listingID string) error {
	_, err := q.db.ExecContext(ctx, deleteListingImages, listingID)
	return err
}
