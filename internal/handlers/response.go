package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/tropicaldog17/folio/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, prefix string, err error) {
	var validation *apperrors.ErrValidation
	var notFound *apperrors.ErrNotFound
	switch {
	case errors.As(err, &validation):
		http.Error(w, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	default:
		http.Error(w, prefix+": "+err.Error(), http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}
