package repositories

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
	"go.etcd.io/bbolt"
)

var userListsBucket = []byte("user_lists")

// BoltListRepository implements [models.ListStore] on a bbolt file.
//
// Layout: the user_lists bucket holds one nested bucket per user ID. Keys inside a user
// bucket are the big-endian table sequence, so cursor order is insertion order.
type BoltListRepository struct {
	db *bbolt.DB
}

// NewBoltListRepository opens (or creates) the bbolt file at path and ensures the root bucket exists.
func NewBoltListRepository(path string, mode os.FileMode) (*BoltListRepository, error) {
	db, err := bbolt.Open(path, mode, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(userListsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltListRepository{db: db}, nil
}

// Insert stores a new entry under the user's bucket.
func (r *BoltListRepository) Insert(ctx context.Context, entry *models.ListEntry) ([]models.ListEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := *entry
	err := r.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(userListsBucket)
		user, err := root.CreateBucketIfNotExists([]byte(stored.UserID))
		if err != nil {
			return fmt.Errorf("failed to create user bucket: %w", err)
		}

		seq, err := root.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}

		stored.ID = shared.GenerateID()
		stored.Sequence = int64(seq)
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = time.Now().UTC()
		}

		buf, err := json.Marshal(stored)
		if err != nil {
			return err
		}

		return user.Put(itob(seq), buf)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert list entry: %w", err)
	}

	*entry = stored
	return []models.ListEntry{stored}, nil
}

// Select counts the user's bucket, then walks it in key order decoding only the requested window.
func (r *BoltListRepository) Select(ctx context.Context, userID string, offset, limit int) ([]models.ListEntry, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	entries := []models.ListEntry{}
	count := 0

	err := r.db.View(func(tx *bbolt.Tx) error {
		user := bucketFor(tx, userID)
		if user == nil {
			return nil
		}

		c := user.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			count++
		}

		start, end := window(offset, limit, count)

		i := 0
		for k, v := c.First(); k != nil && i < end; k, v = c.Next() {
			if i >= start {
				e, err := decodeEntry(k, v)
				if err != nil {
					return err
				}
				entries = append(entries, e)
			}
			i++
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query list entries: %w", err)
	}

	return entries, count, nil
}

// Delete removes every entry in the user's bucket matching key. Empty user buckets are dropped.
func (r *BoltListRepository) Delete(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deleted := []models.ListEntry{}

	err := r.db.Update(func(tx *bbolt.Tx) error {
		user := bucketFor(tx, key.UserID)
		if user == nil {
			return nil
		}

		var keys [][]byte
		err := user.ForEach(func(k, v []byte) error {
			e, err := decodeEntry(k, v)
			if err != nil {
				return err
			}
			if key.Matches(e) {
				keys = append(keys, append([]byte(nil), k...))
				deleted = append(deleted, e)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range keys {
			if err := user.Delete(k); err != nil {
				return err
			}
		}

		if k, _ := user.Cursor().First(); k == nil {
			return tx.Bucket(userListsBucket).DeleteBucket([]byte(key.UserID))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete list entries: %w", err)
	}

	return deleted, nil
}

// Close closes the bolt file.
func (r *BoltListRepository) Close() error {
	return r.db.Close()
}

func bucketFor(tx *bbolt.Tx, userID string) *bbolt.Bucket {
	if userID == "" {
		return nil
	}
	return tx.Bucket(userListsBucket).Bucket([]byte(userID))
}

func decodeEntry(k, v []byte) (models.ListEntry, error) {
	var e models.ListEntry
	if v == nil {
		return e, errors.New("unexpected nested bucket in user list")
	}
	if err := json.Unmarshal(v, &e); err != nil {
		return e, fmt.Errorf("failed to decode list entry: %w", err)
	}
	e.Sequence = int64(binary.BigEndian.Uint64(k))
	return e, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
