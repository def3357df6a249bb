// package services defines interface ListAPI for the three personal list operations
//
// Local (ListService over a store), remote (APIService over HTTP)
package services

import (
	"context"

	"github.com/desertthunder/mylist/internal/models"
)

// ListAPI defines the Add, List and Remove operations of the personal list service.
//
// Errors returned by implementations are [*Error] values carrying an [ErrorKind].
type ListAPI interface {
	// Add saves one entry for key and returns the inserted rows.
	Add(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error)

	// List returns one page of the user's entries and the total count.
	List(ctx context.Context, query ListQuery) (*models.ListPage, error)

	// Remove deletes every entry matching key and returns the deleted rows.
	// A key that matches nothing is not an error.
	Remove(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error)
}
