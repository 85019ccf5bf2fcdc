package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"salesboard/internal/core"
	applog "salesboard/internal/log"
)

// invalidMonthMessage is the exact client-facing text for a bad month
// parameter; the frontend matches on it.
const invalidMonthMessage = "Invalid month parameter"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondQueryError maps a failed query to the wire: an invalid month
// is the caller's fault (400), anything else is an infrastructure
// failure reported with the endpoint's generic message (500) while the
// detail goes to the log only.
func respondQueryError(w http.ResponseWriter, r *http.Request, err error, genericMsg string) {
	if errors.Is(err, core.ErrInvalidMonth) {
		writeError(w, http.StatusBadRequest, invalidMonthMessage)
		return
	}
	slog.ErrorContext(r.Context(), genericMsg,
		applog.FieldError, err,
		applog.FieldPath, r.URL.Path)
	writeError(w, http.StatusInternalServerError, genericMsg)
}
