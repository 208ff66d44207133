package bookmark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for bookmark persistence.
type Repository interface {
	Create(ctx context.Context, bm *Bookmark) error
	GetByID(ctx context.Context, id string) (*Bookmark, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Bookmark, error)
	Update(ctx context.Context, bm *Bookmark) error
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed bookmark repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new bookmark. The ID is generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, bm *Bookmark) error {
	if bm.ID == "" {
		bm.ID = "bm-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	bm.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	bm.UpdatedAt = bm.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, owner_id, title, link, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bm.ID, bm.OwnerID, bm.Title, bm.Link, nullString(bm.Description), now, now,
	)
	if err != nil {
		return fmt.Errorf("creating bookmark: %w", err)
	}

	return nil
}

// GetByID retrieves a bookmark by its unique ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Bookmark, error) {
	row := r.db.QueryRowContext(ctx,
		selectBookmark+" WHERE id = ?", id)
	return scanBookmarkFrom(row)
}

// ListByOwner returns all bookmarks belonging to a user, newest first.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]Bookmark, error) {
	rows, err := r.db.QueryContext(ctx,
		selectBookmark+" WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		bm, err := scanBookmarkFrom(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, *bm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}

	if bookmarks == nil {
		bookmarks = []Bookmark{}
	}
	return bookmarks, nil
}

// Update modifies a bookmark's mutable fields (title, link, description).
func (r *SQLiteRepository) Update(ctx context.Context, bm *Bookmark) error {
	now := time.Now().UTC().Format(time.RFC3339)
	bm.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	result, err := r.db.ExecContext(ctx,
		`UPDATE bookmarks SET title = ?, link = ?, description = ?, updated_at = ? WHERE id = ?`,
		bm.Title, bm.Link, nullString(bm.Description), now, bm.ID,
	)
	if err != nil {
		return fmt.Errorf("updating bookmark: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a bookmark by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// selectBookmark is the shared column list for bookmark queries.
const selectBookmark = "SELECT id, owner_id, title, link, description, created_at, updated_at FROM bookmarks"

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanBookmarkFrom scans a bookmark from any scanner (Row or Rows).
func scanBookmarkFrom(s scanner) (*Bookmark, error) {
	var bm Bookmark
	var description sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&bm.ID, &bm.OwnerID, &bm.Title, &bm.Link, &description,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning bookmark: %w", err)
	}

	if description.Valid {
		bm.Description = description.String
	}

	bm.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	bm.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &bm, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
