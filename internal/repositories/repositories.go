// package repositories provides [models.ListStore] implementations for every supported database driver.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
)

// Open creates the [models.ListStore] selected by cfg.Driver.
//
// The sqlite backend has pending migrations applied before it is returned.
func Open(ctx context.Context, cfg shared.DatabaseConfig) (models.ListStore, error) {
	switch cfg.Driver {
	case shared.DriverSQLite, "":
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, err
		}
		if cfg.Path != ":memory:" {
			shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
		}

		if err := shared.NewMigrator(db).Up(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return NewUserListRepository(db), nil
	case shared.DriverBolt:
		return NewBoltListRepository(cfg.Path, 0600)
	case shared.DriverMemory:
		return NewMemoryListRepository(), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownDriver, cfg.Driver)
	}
}

// NextSequence increments and returns the next sequence number for the given table within tx.
//
// Sequence numbers define insertion order for list pages. They are never exposed to clients.
func NextSequence(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	sequenceTable := table + "_sequence"

	_, err := tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int64
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}

// window clamps an offset/limit pair so that backends can slice without bounds checks.
func window(offset, limit, total int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	start = min(offset, total)
	end = min(start+limit, total)
	return start, end
}
