package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tessadair/bloom/internal/auth"
	"github.com/tessadair/bloom/internal/model"
	"github.com/tessadair/bloom/internal/service"
)

type ProfileHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewProfileHandler(svc *service.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	profile, err := h.svc.GetProfile(userID)
	if err != nil {
		writeServiceError(w, h.logger, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	balance, err := h.svc.Balance(userID)
	if err != nil {
		writeServiceError(w, h.logger, "get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"balance": balance})
}

func (h *ProfileHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	info, err := h.svc.Streak(userID)
	if err != nil {
		writeServiceError(w, h.logger, "get streak", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

// UpdateTimezone stores the browser-reported IANA zone on the profile.
func (h *ProfileHandler) UpdateTimezone(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req timezoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.svc.UpdateTimezone(userID, req.Timezone); err != nil {
		writeServiceError(w, h.logger, "update timezone", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *ProfileHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	txns, err := h.svc.ListTransactions(userID)
	if err != nil {
		writeServiceError(w, h.logger, "list transactions", err)
		return
	}
	if txns == nil {
		txns = []model.CurrencyTransaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}
