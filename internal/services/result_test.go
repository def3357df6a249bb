package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
)

func TestClassify(t *testing.T) {
	tc := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{name: "invalid input", err: fmt.Errorf("%w: missing userId", shared.ErrInvalidInput), kind: KindValidation},
		{name: "missing argument", err: shared.ErrMissingArgument, kind: KindValidation},
		{name: "rate limited", err: shared.ErrRateLimited, kind: KindRateLimited},
		{name: "anything else", err: errors.New("disk I/O error"), kind: KindStorage},
		{name: "already classified", err: &Error{Kind: KindInternal, Message: "boom"}, kind: KindInternal},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != tt.kind {
				t.Errorf("Classify() kind = %s, want %s", got.Kind, tt.kind)
			}
			if got.Message != tt.err.Error() {
				t.Errorf("Classify() message = %q, want %q", got.Message, tt.err.Error())
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestErrorKindStatus(t *testing.T) {
	tc := []struct {
		kind   ErrorKind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindStorage, http.StatusInternalServerError},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tc {
		if got := tt.kind.Status(); got != tt.status {
			t.Errorf("%s.Status() = %d, want %d", tt.kind, got, tt.status)
		}
	}

	if KindForStatus(http.StatusBadRequest) != KindValidation {
		t.Error("400 should map to validation")
	}
	if KindForStatus(http.StatusInternalServerError) != KindStorage {
		t.Error("500 should map to storage")
	}
	if KindForStatus(http.StatusTooManyRequests) != KindRateLimited {
		t.Error("429 should map to rate limited")
	}
	if KindForStatus(http.StatusBadGateway) != KindInternal {
		t.Error("502 should map to internal")
	}
}

func TestResultJSON(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		entry := models.NewListEntry(models.EntryKey{UserID: "u1", ContentID: "c1", ContentType: "movie"})
		data, err := json.Marshal(Rows([]models.ListEntry{*entry}))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var body map[string]json.RawMessage
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if _, ok := body["data"]; !ok {
			t.Errorf("expected data field: %s", data)
		}
		if _, ok := body["count"]; ok {
			t.Errorf("rows result should not carry count: %s", data)
		}
	})

	t.Run("empty rows serialize as array", func(t *testing.T) {
		data, err := json.Marshal(Rows(nil))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `{"data":[]}` {
			t.Errorf("got %s", data)
		}

		data, err = json.Marshal(Result{})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `{"data":[]}` {
			t.Errorf("zero result: got %s", data)
		}
	})

	t.Run("page with zero count", func(t *testing.T) {
		data, err := json.Marshal(Page(&models.ListPage{}))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `{"data":[],"count":0}` {
			t.Errorf("got %s", data)
		}
	})

	t.Run("failure", func(t *testing.T) {
		res := Failure(errors.New("relation \"user_lists\" does not exist"))
		if res.OK() {
			t.Error("failure should not be OK")
		}
		if res.Status() != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", res.Status())
		}

		data, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `{"error":"relation \"user_lists\" does not exist"}` {
			t.Errorf("got %s", data)
		}
	})
}
