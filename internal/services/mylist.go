package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
)

// ListService implements [ListAPI] over a [models.ListStore].
//
// Every operation validates its input, performs exactly one store call and classifies any failure.
// Storage failures are not retried.
type ListService struct {
	store       models.ListStore
	logger      *log.Logger
	maxPageSize int
}

// ListServiceOpts contains configuration options for creating a ListService.
type ListServiceOpts struct {
	Store       models.ListStore
	Logger      *log.Logger
	MaxPageSize int
}

// NewListService creates a new ListService with the provided options
func NewListService(opts ListServiceOpts) *ListService {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = DefaultMaxPageSize
	}

	return &ListService{
		store:       opts.Store,
		logger:      shared.WithLogger(opts.Logger, "component", "list"),
		maxPageSize: opts.MaxPageSize,
	}
}

// MaxPageSize returns the upper bound applied to List limits.
func (s *ListService) MaxPageSize() int {
	return s.maxPageSize
}

// Add inserts one entry for key.
func (s *ListService) Add(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	if err := key.Validate(); err != nil {
		return nil, Classify(err)
	}

	rows, err := s.store.Insert(ctx, models.NewListEntry(key))
	if err != nil {
		s.logger.Error("add failed", "user", key.UserID, "content", key.ContentID, "type", key.ContentType, "error", err)
		return nil, NewError(KindStorage, err)
	}

	s.logger.Debug("entry added", "user", key.UserID, "content", key.ContentID, "type", key.ContentType)
	return rows, nil
}

// List returns the requested page of the user's entries.
//
// The query is normalized first, so a zero-value Page or Limit means the default.
func (s *ListService) List(ctx context.Context, query ListQuery) (*models.ListPage, error) {
	if err := query.Validate(); err != nil {
		return nil, Classify(err)
	}
	query = query.Normalize(s.maxPageSize)

	entries, count, err := s.store.Select(ctx, query.UserID, query.Offset(), query.Limit)
	if err != nil {
		s.logger.Error("list failed", "user", query.UserID, "page", query.Page, "limit", query.Limit, "error", err)
		return nil, NewError(KindStorage, err)
	}

	if entries == nil {
		entries = []models.ListEntry{}
	}

	return &models.ListPage{Entries: entries, Count: count}, nil
}

// Remove deletes every entry matching key.
func (s *ListService) Remove(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	if err := key.Validate(); err != nil {
		return nil, Classify(err)
	}

	rows, err := s.store.Delete(ctx, key)
	if err != nil {
		s.logger.Error("remove failed", "user", key.UserID, "content", key.ContentID, "type", key.ContentType, "error", err)
		return nil, NewError(KindStorage, err)
	}

	s.logger.Debug("entries removed", "user", key.UserID, "content", key.ContentID, "type", key.ContentType, "count", len(rows))
	return rows, nil
}
