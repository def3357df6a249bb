package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/desertthunder/mylist/internal/shared"
)

// ListHandler serves the add, list and remove endpoints.
// Implements the Handler interface for registration with a Router.
type ListHandler struct {
	api         services.ListAPI
	logger      *log.Logger
	maxPageSize int
}

// NewListHandler creates a [ListHandler] backed by api.
// maxPageSize caps the limit query parameter; zero means [services.DefaultMaxPageSize].
func NewListHandler(api services.ListAPI, logger *log.Logger, maxPageSize int) *ListHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ListHandler{api: api, logger: logger, maxPageSize: maxPageSize}
}

// Routes returns the HTTP routes this handler serves.
func (h *ListHandler) Routes() []string {
	return []string{services.PathAdd, services.PathList, services.PathRemove}
}

// ServeHTTP dispatches on path, then enforces the method each endpoint accepts.
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var method string
	var serve http.HandlerFunc

	switch r.URL.Path {
	case services.PathAdd:
		method, serve = http.MethodPost, h.Add
	case services.PathList:
		method, serve = http.MethodGet, h.List
	case services.PathRemove:
		method, serve = http.MethodDelete, h.Remove
	default:
		http.NotFound(w, r)
		return
	}

	if r.Method != method {
		methodNotAllowed(w, method)
		return
	}
	serve(w, r)
}

// Add handles POST {userId, contentId, contentType}.
func (h *ListHandler) Add(w http.ResponseWriter, r *http.Request) {
	key, err := services.DecodeEntryKey(http.MaxBytesReader(w, r.Body, services.MaxBodyBytes))
	if err != nil {
		h.reject(w, r, err)
		return
	}

	rows, err := h.api.Add(r.Context(), key)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	writeResult(w, services.Rows(rows))
}

// List handles GET ?userId=&page=&limit=.
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := services.ParseListQuery(r.URL.Query(), h.maxPageSize)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	page, err := h.api.List(r.Context(), query)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	writeResult(w, services.Page(page))
}

// Remove handles DELETE {userId, contentId, contentType}.
func (h *ListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key, err := services.DecodeEntryKey(http.MaxBytesReader(w, r.Body, services.MaxBodyBytes))
	if err != nil {
		h.reject(w, r, err)
		return
	}

	rows, err := h.api.Remove(r.Context(), key)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	writeResult(w, services.Rows(rows))
}

func (h *ListHandler) reject(w http.ResponseWriter, r *http.Request, err error) {
	res := services.Failure(err)
	if res.Err.Kind == services.KindValidation {
		h.logger.Debug("rejected request", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
	}
	writeResult(w, res)
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
