package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"resto-reviews-backend/internal/models"
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
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// respondServiceError maps the error taxonomy to an HTTP status
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, err.Error(), statusFor(err))
}

// statusFor classifies a service error into an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// pathID parses a positive integer path parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, models.ErrValidation)
	}
	return id, nil
}

// pathIDs parses the restaurant/evaluation id pair shared by the nested routes
func pathIDs(r *http.Request) (restaurantID, evaluationID int64, err error) {
	restaurantID, err = pathID(r, "restaurantId")
	if err != nil {
		return 0, 0, err
	}
	evaluationID, err = pathID(r, "evaluationId")
	if err != nil {
		return 0, 0, err
	}
	return restaurantID, evaluationID, nil
}
