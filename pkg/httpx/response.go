package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the wire shape of every failed request: a stable machine
// code plus a human message.
type ErrorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error body with a stable error code.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message, ErrorCode: errorCode})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
