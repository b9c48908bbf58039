package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/mmconsole/internal/adapter/http/dto"
	"github.com/iho/mmconsole/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrDraftNotFound),
		errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAccountNo),
		errors.Is(err, domain.ErrInvalidPair),
		errors.Is(err, domain.ErrMinimumLines),
		errors.Is(err, domain.ErrLineOutOfRange),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidRateType),
		errors.Is(err, domain.ErrRateTypeLocked),
		errors.Is(err, domain.ErrRateTypeNotRequired),
		errors.Is(err, domain.ErrCurrencyLocked),
		errors.Is(err, domain.ErrInvalidNarration),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidValueDate),
		errors.Is(err, domain.ErrInvalidMemo):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStaleResponse),
		errors.Is(err, domain.ErrDraftConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransactionInvalid),
		errors.Is(err, domain.ErrSubmissionRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// lineIndex parses the {idx} route parameter.
func lineIndex(r *http.Request) (int, error) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		return 0, domain.ErrLineOutOfRange
	}
	return idx, nil
}

// decode reads a JSON request body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}
