package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
)

const entryColumns = "id, sequence, user_id, content_id, content_type, created_at"

// UserListRepository implements [models.ListStore] on the SQLite user_lists table.
type UserListRepository struct {
	db *sql.DB
}

// NewUserListRepository creates a new [UserListRepository] with the given database connection
func NewUserListRepository(db *sql.DB) *UserListRepository {
	return &UserListRepository{db: db}
}

// Insert stores a new entry with a generated ID and sequence.
func (r *UserListRepository) Insert(ctx context.Context, entry *models.ListEntry) ([]models.ListEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "user_lists")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.ID = shared.GenerateID()
	entry.Sequence = sequence
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO user_lists (id, sequence, user_id, content_id, content_type, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query, entry.ID, entry.Sequence, entry.UserID, entry.ContentID, entry.ContentType, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert list entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit insert: %w", err)
	}

	return []models.ListEntry{*entry}, nil
}

// Select returns one page of the user's entries in insertion order and the total count.
func (r *UserListRepository) Select(ctx context.Context, userID string, offset, limit int) ([]models.ListEntry, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_lists WHERE user_id = ?", userID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count list entries: %w", err)
	}

	start, end := window(offset, limit, count)
	if start == end {
		return []models.ListEntry{}, count, nil
	}

	query := `
		SELECT ` + entryColumns + `
		FROM user_lists
		WHERE user_id = ?
		ORDER BY sequence ASC
		LIMIT ? OFFSET ?
	`

	rows, err := tx.QueryContext(ctx, query, userID, end-start, start)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query list entries: %w", err)
	}
	defer rows.Close()

	entries, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}

	return entries, count, nil
}

// Delete removes every entry matching key and returns the removed rows.
func (r *UserListRepository) Delete(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT ` + entryColumns + `
		FROM user_lists
		WHERE user_id = ? AND content_id = ? AND content_type = ?
		ORDER BY sequence ASC
	`

	rows, err := tx.QueryContext(ctx, query, key.UserID, key.ContentID, key.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to query list entries: %w", err)
	}
	deleted, err := r.scanAll(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if len(deleted) == 0 {
		return deleted, nil
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM user_lists WHERE user_id = ? AND content_id = ? AND content_type = ?",
		key.UserID, key.ContentID, key.ContentType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to delete list entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delete: %w", err)
	}

	return deleted, nil
}

// Close closes the database connection.
func (r *UserListRepository) Close() error {
	return r.db.Close()
}

func (r *UserListRepository) scanAll(rows *sql.Rows) ([]models.ListEntry, error) {
	entries := []models.ListEntry{}
	for rows.Next() {
		var e models.ListEntry
		if err := rows.Scan(&e.ID, &e.Sequence, &e.UserID, &e.ContentID, &e.ContentType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
