// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/mylist/internal/models"
)

// ErrStoreDown is the default error returned by [FailingStore].
var ErrStoreDown = errors.New("connection refused")

// FailingStore is a [models.ListStore] whose every call fails with Err.
type FailingStore struct {
	Err error
}

func (f *FailingStore) err() error {
	if f.Err == nil {
		return ErrStoreDown
	}
	return f.Err
}

func (f *FailingStore) Insert(ctx context.Context, entry *models.ListEntry) ([]models.ListEntry, error) {
	return nil, f.err()
}

func (f *FailingStore) Select(ctx context.Context, userID string, offset, limit int) ([]models.ListEntry, int, error) {
	return nil, 0, f.err()
}

func (f *FailingStore) Delete(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	return nil, f.err()
}

func (f *FailingStore) Close() error { return nil }

// StoreCall records one call made to a [RecordingStore].
type StoreCall struct {
	Op     string
	Key    models.EntryKey
	UserID string
	Offset int
	Limit  int
}

// RecordingStore wraps a [models.ListStore] and records every call.
type RecordingStore struct {
	models.ListStore

	mu    sync.Mutex
	calls []StoreCall
}

func NewRecordingStore(inner models.ListStore) *RecordingStore {
	return &RecordingStore{ListStore: inner}
}

func (r *RecordingStore) record(c StoreCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns a copy of the recorded calls.
func (r *RecordingStore) Calls() []StoreCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StoreCall(nil), r.calls...)
}

func (r *RecordingStore) Insert(ctx context.Context, entry *models.ListEntry) ([]models.ListEntry, error) {
	r.record(StoreCall{Op: "insert", Key: entry.Key()})
	return r.ListStore.Insert(ctx, entry)
}

func (r *RecordingStore) Select(ctx context.Context, userID string, offset, limit int) ([]models.ListEntry, int, error) {
	r.record(StoreCall{Op: "select", UserID: userID, Offset: offset, Limit: limit})
	return r.ListStore.Select(ctx, userID, offset, limit)
}

func (r *RecordingStore) Delete(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	r.record(StoreCall{Op: "delete", Key: key})
	return r.ListStore.Delete(ctx, key)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
