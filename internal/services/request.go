package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
)

// Pagination defaults.
const (
	DefaultPage        = 1
	DefaultLimit       = 10
	DefaultMaxPageSize = 100
	MaxPage            = 1_000_000_000
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// entryPayload is the JSON body of Add and Remove.
type entryPayload struct {
	UserID      json.RawMessage `json:"userId"`
	ContentID   json.RawMessage `json:"contentId"`
	ContentType json.RawMessage `json:"contentType"`
}

// DecodeEntryKey reads {userId, contentId, contentType} from r.
//
// userId and contentType must be JSON strings; contentId may be a string or a number.
// Missing, null, empty or wrongly typed fields yield an error wrapping [shared.ErrInvalidInput].
func DecodeEntryKey(r io.Reader) (models.EntryKey, error) {
	var payload entryPayload

	dec := json.NewDecoder(io.LimitReader(r, MaxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return models.EntryKey{}, fmt.Errorf("%w: request body is empty", shared.ErrInvalidInput)
		}
		return models.EntryKey{}, fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}

	var key models.EntryKey
	var problems []string

	if v, err := stringField(payload.UserID, false); err != nil {
		problems = append(problems, "userId "+err.Error())
	} else {
		key.UserID = v
	}

	if v, err := stringField(payload.ContentID, true); err != nil {
		problems = append(problems, "contentId "+err.Error())
	} else {
		key.ContentID = v
	}

	if v, err := stringField(payload.ContentType, false); err != nil {
		problems = append(problems, "contentType "+err.Error())
	} else {
		key.ContentType = v
	}

	if len(problems) > 0 {
		return models.EntryKey{}, fmt.Errorf("%w: %s", shared.ErrInvalidInput, strings.Join(problems, "; "))
	}

	if err := key.Validate(); err != nil {
		return models.EntryKey{}, err
	}

	return key, nil
}

// stringField decodes a raw JSON value as a string. Numbers are accepted when allowNumber is set
// and kept in their literal form. Absent and null values decode to "".
func stringField(raw json.RawMessage, allowNumber bool) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.New("is not a valid string")
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if !allowNumber {
			return "", errors.New("must be a string")
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", errors.New("is not a valid number")
		}
		return canonicalNumber(n), nil
	default:
		if allowNumber {
			return "", errors.New("must be a string or number")
		}
		return "", errors.New("must be a string")
	}
}

// canonicalNumber spells equal JSON numbers the same way, so 1, 1.0 and 1e0 all become "1".
// Integers too large for a float64 keep their literal digits.
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}

	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		return lit
	}

	f, err := n.Float64()
	if err != nil {
		return lit
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ListQuery holds the parsed parameters of a List request.
type ListQuery struct {
	UserID string
	Page   int
	Limit  int
}

// Offset is the zero-based index of the first row on the page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Range returns the inclusive zero-based row range [from, to] covered by the page.
func (q ListQuery) Range() (from, to int) {
	from = q.Offset()
	return from, from + q.Limit - 1
}

// Normalize clamps Page and Limit: values below 1 fall back to the defaults,
// Limit is capped at maxPageSize and Page at [MaxPage].
func (q ListQuery) Normalize(maxPageSize int) ListQuery {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	return q
}

// Validate rejects queries without a user.
func (q ListQuery) Validate() error {
	if strings.TrimSpace(q.UserID) == "" {
		return fmt.Errorf("%w: missing userId", shared.ErrInvalidInput)
	}
	return nil
}

// Values encodes the query as URL parameters.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("userId", q.UserID)
	if q.Page > 0 {
		v.Set("page", fmt.Sprint(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", fmt.Sprint(q.Limit))
	}
	return v
}

// ParseListQuery reads userId, page and limit from URL parameters.
//
// page and limit are read like JavaScript's parseInt: leading whitespace and sign,
// then as many digits as present ("3abc" is 3). Text without leading digits falls back to the default.
func ParseListQuery(values url.Values, maxPageSize int) (ListQuery, error) {
	q := ListQuery{
		UserID: values.Get("userId"),
		Page:   parseLeadingInt(values.Get("page"), DefaultPage),
		Limit:  parseLeadingInt(values.Get("limit"), DefaultLimit),
	}

	if err := q.Validate(); err != nil {
		return ListQuery{}, err
	}

	return q.Normalize(maxPageSize), nil
}

func parseLeadingInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	n, digits := 0, 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		if n <= MaxPage {
			n = n*10 + int(c-'0')
		}
		digits++
	}

	if digits == 0 {
		return fallback
	}
	if neg {
		return -n
	}
	return n
}
