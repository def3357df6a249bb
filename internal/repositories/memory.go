package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
)

// MemoryListRepository is an in-process [models.ListStore]. Contents are lost on Close.
type MemoryListRepository struct {
	mu       sync.RWMutex
	entries  []models.ListEntry
	sequence int64
	closed   bool
}

// NewMemoryListRepository creates an empty [MemoryListRepository].
func NewMemoryListRepository() *MemoryListRepository {
	return &MemoryListRepository{}
}

func (r *MemoryListRepository) Insert(ctx context.Context, entry *models.ListEntry) ([]models.ListEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, shared.ErrStoreClosed
	}

	r.sequence++
	entry.ID = shared.GenerateID()
	entry.Sequence = r.sequence
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.entries = append(r.entries, *entry)

	return []models.ListEntry{*entry}, nil
}

func (r *MemoryListRepository) Select(ctx context.Context, userID string, offset, limit int) ([]models.ListEntry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, 0, shared.ErrStoreClosed
	}

	var owned []models.ListEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			owned = append(owned, e)
		}
	}

	start, end := window(offset, limit, len(owned))
	page := make([]models.ListEntry, end-start)
	copy(page, owned[start:end])

	return page, len(owned), nil
}

func (r *MemoryListRepository) Delete(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, shared.ErrStoreClosed
	}

	deleted := []models.ListEntry{}
	kept := r.entries[:0]
	for _, e := range r.entries {
		if key.Matches(e) {
			deleted = append(deleted, e)
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept

	return deleted, nil
}

func (r *MemoryListRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.entries = nil
	return nil
}
