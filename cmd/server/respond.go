package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/hpp/internal/pricing"
	"github.com/Simplici0/hpp/internal/quote"
	"github.com/Simplici0/hpp/internal/store"
)

const maxBodyBytes = 1 << 20

type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, jsonError{Error: message, Details: details})
}

// decodeJSON reads a bounded JSON body into v. Failures are answered with 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP statuses.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, quote.ErrNoApplicableRule):
		writeJSONError(w, http.StatusUnprocessableEntity, "no applicable pricing rule", err.Error())
	case pricing.IsPolicyError(err):
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid pricing policy", strings.Join(pricing.Problems(err), "; "))
	default:
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal error", "")
	}
}
