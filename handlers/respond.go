package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"nonZeroDayAPI/internal/apperr"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithDomainError maps service errors onto HTTP statuses. Anything
// outside the domain taxonomy is a 500 with the detail kept in the log.
func respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrDuplicateDay):
		respondWithError(w, http.StatusConflict, "an update for this day already exists")
	case errors.Is(err, apperr.ErrConcurrentModification):
		respondWithError(w, http.StatusConflict, "record changed concurrently, retry with fresh state")
	case errors.Is(err, apperr.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "forbidden")
	default:
		log.Printf("Internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
