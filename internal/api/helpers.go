package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/service"
	"github.com/splitpot/splitpot/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps service, storage, and auth errors to HTTP responses.
// The services already log their failures, so only unmapped errors are logged
// here before hiding them behind a 500.
func handleServiceError(w http.ResponseWriter, err error) {
	var validation *service.ErrValidation
	var forbidden *service.ErrForbidden

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &forbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrGroupNotFound),
		errors.Is(err, storage.ErrMemberNotFound),
		errors.Is(err, storage.ErrExpenseNotFound),
		errors.Is(err, storage.ErrSettlementNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("Unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
