package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
)

// ErrorKind classifies a failed operation.
type ErrorKind int

const (
	KindInternal    ErrorKind = iota // unexpected failure outside storage
	KindValidation                   // request is missing or has malformed fields
	KindStorage                      // the storage collaborator failed
	KindRateLimited                  // the request was rejected by the rate limiter
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Status maps the kind to its HTTP status code.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// KindForStatus is the inverse of [ErrorKind.Status], used when decoding remote errors.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 400 && status < 500:
		return KindValidation
	case status == http.StatusInternalServerError:
		return KindStorage
	default:
		return KindInternal
	}
}

// Error is a classified operation failure. Message is what clients see.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates an [*Error] of kind wrapping cause.
func NewError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Message: cause.Error(), cause: cause}
}

// Classify converts any error into an [*Error].
//
// Already classified errors pass through; input sentinels from the shared package become
// validation errors, rate limiting keeps its own kind and everything else is a storage failure.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument):
		return NewError(KindValidation, err)
	case errors.Is(err, shared.ErrRateLimited):
		return NewError(KindRateLimited, err)
	default:
		return NewError(KindStorage, err)
	}
}

// Result is the outcome of one operation: either rows (and a count for List) or an [*Error].
//
// It serializes to {"data": [...]} / {"data": [...], "count": n} on success and
// {"error": "message"} on failure.
type Result struct {
	Data  []models.ListEntry
	Count *int
	Err   *Error
}

// Rows creates a successful [Result] for Add and Remove.
func Rows(entries []models.ListEntry) Result {
	if entries == nil {
		entries = []models.ListEntry{}
	}
	return Result{Data: entries}
}

// Page creates a successful [Result] for List.
func Page(page *models.ListPage) Result {
	r := Rows(page.Entries)
	count := page.Count
	r.Count = &count
	return r
}

// Failure creates a failed [Result] from err.
func Failure(err error) Result {
	return Result{Err: Classify(err)}
}

// OK reports whether the result carries data rather than an error.
func (r Result) OK() bool {
	return r.Err == nil
}

// Status returns the HTTP status code for the result.
func (r Result) Status() int {
	if r.Err != nil {
		return r.Err.Kind.Status()
	}
	return http.StatusOK
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Err.Message})
	}

	data := r.Data
	if data == nil {
		data = []models.ListEntry{}
	}

	return json.Marshal(struct {
		Data  []models.ListEntry `json:"data"`
		Count *int               `json:"count,omitempty"`
	}{data, r.Count})
}
