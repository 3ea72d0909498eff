package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"rewear-backend/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, payload interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondDomainError maps a domain error to an HTTP status. The error
// text carries the distinguishing reason (not-owner vs not-pending vs
// insufficient points); internal errors are not leaked.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrForbidden):
		respondError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInsufficientBalance):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}
