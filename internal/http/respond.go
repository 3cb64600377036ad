package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/iyanu752/e-commerce-api/internal/inventory"
	"github.com/iyanu752/e-commerce-api/internal/repository"
	"github.com/iyanu752/e-commerce-api/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError maps service sentinels onto HTTP statuses: missing
// resources are 404, rejected requests are 400 with the specific reason,
// duplicates are 409, anything unexpected is 500.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrPaymentClosed),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrIllegalTransition):
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, repository.ErrDuplicateOrder):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
