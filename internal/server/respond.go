package server

import (
	"encoding/json"
	"net/http"

	"github.com/desertthunder/mylist/internal/services"
)

// writeResult writes res as JSON with the status code of its kind.
func writeResult(w http.ResponseWriter, res services.Result) {
	writeJSON(w, res.Status(), res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
