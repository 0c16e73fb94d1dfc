package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the uniform response body: {"ok":true} on success,
// {"error":..., "status":..., "detail":...} on failure.
type envelope struct {
	OK     bool   `json:"ok,omitempty"`
	Error  string `json:"error,omitempty"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Error strings of the failure envelope.
const (
	errMethodNotAllowed   = "Method Not Allowed"
	errInvalidJSON        = "Invalid JSON"
	errMissingCoordinates = "Latitude and longitude are required"
	errInvalidPhoto       = "Photo must be base64 encoded"
	errMissingAddresses   = "Missing REPORT_FROM/REPORT_TO (or NETLIFY_EMAILS_FROM/TO)"
	errProviderNotReady   = "Mail provider not configured"
	errRenderFailed       = "Failed to render notification"
	errProviderCall       = "Provider call failed"
)

// setCORSHeaders writes the fixed header set carried by every response.
func setCORSHeaders(w http.ResponseWriter, allowOrigin string) {
	header := w.Header()
	header.Set("Content-Type", "application/json")
	header.Set("Access-Control-Allow-Origin", allowOrigin)
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, statusCode int, body envelope) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode JSON response", "error", err)
	}
}
