// package tasks implements long-running list operations that span many users.
//
// The core abstraction is ExportEngine, which pages through users' lists over a [services.ListAPI]
// and writes them to disk with a bounded worker pool.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/desertthunder/mylist/internal/shared"
)

// ExportEngine reads complete lists through a [services.ListAPI].
type ExportEngine struct {
	api      services.ListAPI
	pageSize int
}

// NewExportEngine creates an ExportEngine that fetches pageSize entries per List call.
// A non-positive pageSize means [services.DefaultMaxPageSize].
func NewExportEngine(api services.ListAPI, pageSize int) *ExportEngine {
	if pageSize <= 0 {
		pageSize = services.DefaultMaxPageSize
	}
	return &ExportEngine{api: api, pageSize: pageSize}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// FetchAll pages through the user's list and returns every entry with the total count.
//
// Pages are requested until the reported count is reached or an empty page comes back.
// A server may cap the page size below pageSize, so a short page does not end the walk.
// Entries added mid-walk may or may not be included.
func (e *ExportEngine) FetchAll(ctx context.Context, userID string) (*models.ListPage, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: list API not initialized", shared.ErrNotImplemented)
	}

	all := &models.ListPage{Entries: []models.ListEntry{}}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := e.api.List(ctx, services.ListQuery{UserID: userID, Page: page, Limit: e.pageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d for %s: %w", page, userID, err)
		}

		all.Entries = append(all.Entries, res.Entries...)
		all.Count = res.Count

		if len(res.Entries) == 0 || len(all.Entries) >= res.Count {
			return all, nil
		}
	}
}
