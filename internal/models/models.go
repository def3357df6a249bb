// package models defines the data model for the personal list service
package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mylist/internal/shared"
)

// EntryKey is the natural key of a [ListEntry]. Remove matches on all three fields.
type EntryKey struct {
	UserID      string
	ContentID   string
	ContentType string
}

// Validate reports which key fields are missing.
func (k EntryKey) Validate() error {
	var missing []string
	if strings.TrimSpace(k.UserID) == "" {
		missing = append(missing, "userId")
	}
	if strings.TrimSpace(k.ContentID) == "" {
		missing = append(missing, "contentId")
	}
	if strings.TrimSpace(k.ContentType) == "" {
		missing = append(missing, "contentType")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", shared.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// Matches reports whether e has exactly this key.
func (k EntryKey) Matches(e ListEntry) bool {
	return e.UserID == k.UserID && e.ContentID == k.ContentID && e.ContentType == k.ContentType
}

// ListEntry is a single saved-content row owned by a user.
type ListEntry struct {
	ID          string    `json:"id"`
	Sequence    int64     `json:"-"`
	UserID      string    `json:"userId"`
	ContentID   string    `json:"contentId"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewListEntry creates an unsaved entry for key. ID and Sequence are assigned by the store.
func NewListEntry(key EntryKey) *ListEntry {
	return &ListEntry{
		UserID:      key.UserID,
		ContentID:   key.ContentID,
		ContentType: key.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
}

// Key returns the natural key of the entry.
func (e ListEntry) Key() EntryKey {
	return EntryKey{UserID: e.UserID, ContentID: e.ContentID, ContentType: e.ContentType}
}

// Validate checks that all key fields are populated.
func (e ListEntry) Validate() error {
	return e.Key().Validate()
}

// ListPage is one page of a user's entries plus the total number of entries across all pages.
type ListPage struct {
	Entries []ListEntry `json:"data"`
	Count   int         `json:"count"`
}

// ListStore is the storage port for user_lists.
//
// Implementations must return entries in insertion order and must not treat a Delete
// that matches nothing as an error.
type ListStore interface {
	Insert(ctx context.Context, entry *ListEntry) ([]ListEntry, error)                      // Insert stores entry, assigning ID and Sequence, and returns the inserted rows
	Select(ctx context.Context, userID string, offset, limit int) ([]ListEntry, int, error) // Select returns rows [offset, offset+limit) for userID and the total count
	Delete(ctx context.Context, key EntryKey) ([]ListEntry, error)                          // Delete removes all rows matching key and returns them
	Close() error                                                                           // Close releases the underlying connection
}
