package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/shivareddy1287/ims-backend/ledger"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Summary any    `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ListResponse is the envelope for paginated collection responses.
type ListResponse struct {
	Success     bool `json:"success"`
	Data        any  `json:"data"`
	Count       int  `json:"count"`
	Total       int  `json:"total"`
	Pages       int  `json:"pages"`
	CurrentPage int  `json:"currentPage"`
}

// DB is the shared database connection used by all handlers.
var DB *sql.DB

// writeJSON writes any response envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Success: false, Error: msg})
}

// writeInternalError logs the cause and writes a 500. In production the
// cause is kept out of the response body.
func writeInternalError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "error", err)
	msg := err.Error()
	if os.Getenv("APP_ENV") == "production" {
		msg = "internal server error"
	}
	writeError(w, http.StatusInternalServerError, msg)
}

// writeLedgerError maps the engine's error taxonomy onto HTTP statuses:
// validation and conflict failures are 400, a missing account is 404,
// everything else is 500.
func writeLedgerError(w http.ResponseWriter, err error) {
	var ve *ledger.ValidationError
	var ce *ledger.ConflictError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &ce):
		writeError(w, http.StatusBadRequest, ce.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "member not found")
	default:
		writeInternalError(w, err)
	}
}

// NotFound is the catch-all JSON handler for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "route not found")
}

// BasicAuth is middleware that enforces HTTP Basic Authentication.
func BasicAuth(next http.Handler) http.Handler {
	user := os.Getenv("AUTH_USER")
	pass := os.Getenv("AUTH_PASS")

	// If no credentials are configured, skip auth
	if user == "" && pass == "" {
		slog.Warn("AUTH_USER and AUTH_PASS not set, API is unauthenticated")
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="chitfund"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
