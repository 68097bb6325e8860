package http

import (
	"encoding/json"
	"net/http"
)

// Flash categories, mirrored by the presentation layer's message styling.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// FlashResponse is the contract every auth flow operation resolves to:
// a user-visible message plus the route the client should navigate to.
type FlashResponse struct {
	Message  string `json:"message"`
	Category string `json:"category"`
	Redirect string `json:"redirect"`
}

// WriteFlash writes a flash-message + redirect-target pair as JSON.
func WriteFlash(w http.ResponseWriter, statusCode int, message, category, redirect string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(FlashResponse{
		Message:  message,
		Category: category,
		Redirect: redirect,
	})
}
