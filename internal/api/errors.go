package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spigell/askme/internal/learned"
)

const maxRequestBodySize = 1 << 20 // 1MB

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

// learnedError maps cache errors onto HTTP statuses.
func learnedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, learned.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found", "learned answer not found")
	case errors.Is(err, learned.ErrInvalidInput):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", learned.ErrInvalidInput)
	case errors.Is(err, learned.ErrStoreNotConfigured):
		httpError(w, http.StatusServiceUnavailable, "unavailable", "%v", learned.ErrStoreNotConfigured)
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
