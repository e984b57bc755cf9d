package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type rootResponse struct {
	Service      string `json:"service"`
	Version      string `json:"version"`
	Environment  string `json:"environment"`
	Message      string `json:"message"`
	RequestCount int64  `json:"requestCount"`
	Timestamp    string `json:"timestamp"`
}

// NotFoundResponse is the body of every 404.
type NotFoundResponse struct {
	Error string `json:"error"`
	Path  string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	encodeJSON(w, status, v, "")
}

func writeIndentedJSON(w http.ResponseWriter, status int, v any) {
	encodeJSON(w, status, v, "  ")
}

// WriteJSON writes v as the JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v)
}

// encodeJSON writes the body without the newline json.Encoder appends.
func encodeJSON(w http.ResponseWriter, status int, v any, indent string) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode response", "status", status, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		slog.Warn("failed to write response", "status", status, "error", err)
	}
}
