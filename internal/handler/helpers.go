package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tessadair/bloom/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// writeServiceError maps service sentinels to HTTP statuses. Anything
// unrecognized is a store-level failure: logged and surfaced as a generic
// retryable 500.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, action string, err error) {
	var insufficient *service.InsufficientFundsError
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, "already completed")
	case errors.Is(err, service.ErrAlreadyPurchased):
		writeError(w, http.StatusConflict, "already purchased")
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "insufficient balance",
			"needed": insufficient.Needed(),
		})
	case errors.Is(err, service.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient balance")
	default:
		logger.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong, try again")
	}
}
