// Package httpx holds the small response helpers shared by the API
// handlers: CORS headers, JSON encoding and the error envelope.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// CORS applies the configured origin allowlist and answers preflights.
// Returns true when the request was an OPTIONS preflight and is done.
func CORS(w http.ResponseWriter, r *http.Request, origins []string) bool {
	origin := "*"
	if len(origins) > 0 && origins[0] != "*" {
		origin = strings.Join(origins, ", ")
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError emits the standard failure envelope.
func WriteError(w http.ResponseWriter, status int, message string, query string) {
	payload := map[string]any{"success": false, "error": message}
	if query != "" {
		payload["query"] = query
	}
	WriteJSON(w, status, payload)
}

// DecodeBody parses a JSON request body into dst.
func DecodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
