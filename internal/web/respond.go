package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/evcraddock/gatehouse/internal/store"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

// errValidation marks request bodies rejected before dispatch.
var errValidation = errors.New("invalid request")

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", errValidation, err)
	}
	return nil
}

// invalid builds a validation error.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errValidation, fmt.Sprintf(format, args...))
}

// apiFail maps err onto an HTTP status and writes it.
func apiFail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errValidation), errors.Is(err, visitor.ErrValidation):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		apiError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidTransition):
		apiError(w, err.Error(), http.StatusConflict)
	default:
		apiError(w, err.Error(), http.StatusInternalServerError)
	}
}

// find returns the element of items whose ID is id.
func find[T any](items []T, id string, idOf func(T) string) (T, bool) {
	for _, it := range items {
		if idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
