package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"freight-backend/internal/models"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes a JSON error body with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// ServiceError maps service-layer errors to HTTP status codes:
// conflicts to 409, missing records to 404, everything else to 500.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrConflict):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	default:
		Error(w, http.StatusInternalServerError, err.Error())
	}
}
