// Package store provides the sqlite-backed listing repository.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ridelink/backend/internal/model/listing"
)

const schema = `
CREATE TABLE IF NOT EXISTS listings (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	make        TEXT NOT NULL DEFAULT '',
	model       TEXT NOT NULL DEFAULT '',
	year        INTEGER NOT NULL DEFAULT 0,
	price       REAL NOT NULL,
	city        TEXT NOT NULL DEFAULT '',
	zip_code    TEXT NOT NULL DEFAULT '',
	seller_id   TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
)`

// ListingStore implements listing.Store over sqlite.
type ListingStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*ListingStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &ListingStore{db: db}, nil
}

// Close releases the underlying connection.
func (s *ListingStore) Close() error { return s.db.Close() }

// Create validates and inserts a listing.
func (s *ListingStore) Create(ctx context.Context, l listing.Listing) (listing.Listing, error) {
	if strings.TrimSpace(l.Title) == "" {
		return listing.Listing{}, listing.ErrTitleRequired
	}
	if l.Price <= 0 {
		return listing.Listing{}, listing.ErrPriceRequired
	}

	l.ID = uuid.NewString()
	l.Status = listing.StatusActive
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	const q = `
		INSERT INTO listings (id, title, make, model, year, price, city, zip_code, seller_id, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		l.ID, l.Title, l.Make, l.Model, l.Year, l.Price, l.City, l.ZipCode, l.SellerID, l.Description, l.Status, l.CreatedAt)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("failed to insert listing: %w", err)
	}
	return l, nil
}

// GetByID retrieves a listing by identifier.
func (s *ListingStore) GetByID(ctx context.Context, id string) (listing.Listing, error) {
	const q = `
		SELECT id, title, make, model, year, price, city, zip_code, seller_id, description, status, created_at
		FROM listings
		WHERE id = ?`
	row := s.db.QueryRowContext(ctx, q, id)

	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return listing.Listing{}, listing.ErrNotFound
	}
	if err != nil {
		return listing.Listing{}, fmt.Errorf("failed to load listing: %w", err)
	}
	return l, nil
}

// Search returns listings matching the filter, newest first.
func (s *ListingStore) Search(ctx context.Context, f listing.Filter) ([]listing.Listing, error) {
	q := `
		SELECT id, title, make, model, year, price, city, zip_code, seller_id, description, status, created_at
		FROM listings`
	var conds []string
	var args []any
	if f.City != "" {
		conds = append(conds, "city = ? COLLATE NOCASE")
		args = append(args, f.City)
	}
	if f.ZipCode != "" {
		conds = append(conds, "zip_code = ?")
		args = append(args, f.ZipCode)
	}
	if f.Query != "" {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+f.Query+"%")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer rows.Close()

	var out []listing.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSold flips a listing's status.
func (s *ListingStore) MarkSold(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE listings SET status = ? WHERE id = ?`, listing.StatusSold, id)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return listing.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(row scanner) (listing.Listing, error) {
	var l listing.Listing
	err := row.Scan(&l.ID, &l.Title, &l.Make, &l.Model, &l.Year, &l.Price,
		&l.City, &l.ZipCode, &l.SellerID, &l.Description, &l.Status, &l.CreatedAt)
	return l, err
}
