package services

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/mylist/internal/shared"
)

func TestDecodeEntryKey(t *testing.T) {
	tc := []struct {
		name    string
		body    string
		user    string
		content string
		kind    string
		wantErr string
	}{
		{name: "strings", body: `{"userId":"u1","contentId":"c1","contentType":"movie"}`, user: "u1", content: "c1", kind: "movie"},
		{name: "numeric content id", body: `{"userId":"u1","contentId":42,"contentType":"show"}`, user: "u1", content: "42", kind: "show"},
		{name: "decimal integer content id", body: `{"userId":"u1","contentId":1.0,"contentType":"show"}`, user: "u1", content: "1", kind: "show"},
		{name: "exponent content id", body: `{"userId":"u1","contentId":1e0,"contentType":"show"}`, user: "u1", content: "1", kind: "show"},
		{name: "fractional content id", body: `{"userId":"u1","contentId":2.50,"contentType":"show"}`, user: "u1", content: "2.5", kind: "show"},
		{name: "negative content id", body: `{"userId":"u1","contentId":-0.0,"contentType":"show"}`, user: "u1", content: "0", kind: "show"},
		{name: "large numeric content id", body: `{"userId":"u1","contentId":12345678901234567890,"contentType":"show"}`, user: "u1", content: "12345678901234567890", kind: "show"},
		{name: "extra fields ignored", body: `{"userId":"u1","contentId":"c1","contentType":"movie","note":"x"}`, user: "u1", content: "c1", kind: "movie"},
		{name: "empty body", body: ``, wantErr: "empty"},
		{name: "malformed", body: `{"userId":`, wantErr: "malformed"},
		{name: "array body", body: `[1,2]`, wantErr: "malformed"},
		{name: "missing content type", body: `{"userId":"u1","contentId":"c1"}`, wantErr: "contentType"},
		{name: "null user", body: `{"userId":null,"contentId":"c1","contentType":"movie"}`, wantErr: "userId"},
		{name: "blank user", body: `{"userId":"  ","contentId":"c1","contentType":"movie"}`, wantErr: "userId"},
		{name: "numeric user", body: `{"userId":7,"contentId":"c1","contentType":"movie"}`, wantErr: "userId must be a string"},
		{name: "boolean content id", body: `{"userId":"u1","contentId":true,"contentType":"movie"}`, wantErr: "contentId must be a string or number"},
		{name: "object content type", body: `{"userId":"u1","contentId":"c1","contentType":{}}`, wantErr: "contentType must be a string"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DecodeEntryKey(strings.NewReader(tt.body))

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got key %+v", tt.wantErr, key)
				}
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if key.UserID != tt.user || key.ContentID != tt.content || key.ContentType != tt.kind {
				t.Errorf("got %+v, want {%s %s %s}", key, tt.user, tt.content, tt.kind)
			}
		})
	}
}

func TestParseListQuery(t *testing.T) {
	tc := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{name: "defaults", query: "userId=u1", page: 1, limit: 10},
		{name: "explicit", query: "userId=u1&page=3&limit=5", page: 3, limit: 5},
		{name: "non numeric falls back", query: "userId=u1&page=abc&limit=x", page: 1, limit: 10},
		{name: "leading digits", query: "userId=u1&page=2abc&limit=7.9", page: 2, limit: 7},
		{name: "padded", query: "userId=u1&page=%202&limit=+4", page: 2, limit: 4},
		{name: "zero clamps", query: "userId=u1&page=0&limit=0", page: 1, limit: 10},
		{name: "negative clamps", query: "userId=u1&page=-2&limit=-5", page: 1, limit: 10},
		{name: "limit capped", query: "userId=u1&limit=1000", page: 1, limit: 50},
		{name: "huge page capped", query: "userId=u1&page=99999999999999999999999", page: MaxPage, limit: 10},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad test query: %v", err)
			}

			q, err := ParseListQuery(values, 50)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.UserID != "u1" {
				t.Errorf("expected user u1, got %s", q.UserID)
			}
			if q.Page != tt.page || q.Limit != tt.limit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", q.Page, q.Limit, tt.page, tt.limit)
			}
		})
	}

	t.Run("missing user", func(t *testing.T) {
		_, err := ParseListQuery(url.Values{"page": {"1"}}, 50)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestListQueryRange(t *testing.T) {
	tc := []struct {
		page, limit int
		from, to    int
	}{
		{page: 1, limit: 10, from: 0, to: 9},
		{page: 2, limit: 5, from: 5, to: 9},
		{page: 3, limit: 1, from: 2, to: 2},
	}

	for _, tt := range tc {
		q := ListQuery{UserID: "u", Page: tt.page, Limit: tt.limit}
		from, to := q.Range()
		if from != tt.from || to != tt.to {
			t.Errorf("page=%d limit=%d: got [%d, %d], want [%d, %d]", tt.page, tt.limit, from, to, tt.from, tt.to)
		}
	}
}

func TestListQueryValues(t *testing.T) {
	v := ListQuery{UserID: "u 1", Page: 2, Limit: 5}.Values()
	if v.Get("userId") != "u 1" || v.Get("page") != "2" || v.Get("limit") != "5" {
		t.Errorf("unexpected values: %v", v)
	}

	v = ListQuery{UserID: "u1"}.Values()
	if v.Has("page") || v.Has("limit") {
		t.Errorf("zero page and limit should be omitted: %v", v)
	}
}
