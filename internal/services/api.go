// API service for calling a running mylist server over HTTP
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/mylist/internal/models"
)

// Route paths served by the HTTP surface.
const (
	PathAdd    = "/api/my-list/add"
	PathList   = "/api/my-list/list"
	PathRemove = "/api/my-list/remove"
	PathHealth = "/health"
)

// APIService implements [ListAPI] against a remote mylist server.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the server at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:3000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// wireResult is the JSON shape of every list endpoint response.
type wireResult struct {
	Data  []models.ListEntry `json:"data"`
	Count *int               `json:"count"`
	Error string             `json:"error"`
}

// Do performs a request with an optional JSON body and returns the raw response.
func (a *APIService) Do(ctx context.Context, method, path string, body []byte) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}

// Add posts key to the add endpoint.
func (a *APIService) Add(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	res, err := a.call(ctx, http.MethodPost, PathAdd, &key)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// List fetches one page from the list endpoint.
func (a *APIService) List(ctx context.Context, query ListQuery) (*models.ListPage, error) {
	res, err := a.call(ctx, http.MethodGet, PathList+"?"+query.Values().Encode(), nil)
	if err != nil {
		return nil, err
	}

	page := &models.ListPage{Entries: res.Data}
	if res.Count != nil {
		page.Count = *res.Count
	}
	return page, nil
}

// Remove sends key to the remove endpoint.
func (a *APIService) Remove(ctx context.Context, key models.EntryKey) ([]models.ListEntry, error) {
	res, err := a.call(ctx, http.MethodDelete, PathRemove, &key)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Health reports whether the server answers its health check.
func (a *APIService) Health(ctx context.Context) error {
	resp, err := a.Do(ctx, http.MethodGet, PathHealth, nil)
	if err != nil {
		return NewError(KindInternal, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: KindForStatus(resp.StatusCode), Message: fmt.Sprintf("health check returned status %d", resp.StatusCode)}
	}
	return nil
}

func (a *APIService) call(ctx context.Context, method, path string, key *models.EntryKey) (*wireResult, error) {
	var body []byte
	if key != nil {
		var err error
		body, err = json.Marshal(map[string]string{
			"userId":      key.UserID,
			"contentId":   key.ContentID,
			"contentType": key.ContentType,
		})
		if err != nil {
			return nil, NewError(KindInternal, err)
		}
	}

	resp, err := a.Do(ctx, method, path, body)
	if err != nil {
		return nil, NewError(KindInternal, err)
	}

	var res wireResult
	if err := json.Unmarshal(resp.Body, &res); err != nil {
		return nil, &Error{
			Kind:    KindForStatus(resp.StatusCode),
			Message: fmt.Sprintf("unexpected response (status %d): %s", resp.StatusCode, strings.TrimSpace(string(resp.Body))),
		}
	}

	if resp.StatusCode != http.StatusOK {
		msg := res.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, &Error{Kind: KindForStatus(resp.StatusCode), Message: msg}
	}

	if res.Data == nil {
		res.Data = []models.ListEntry{}
	}
	return &res, nil
}
