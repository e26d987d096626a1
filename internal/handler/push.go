package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tessadair/bloom/internal/auth"
	"github.com/tessadair/bloom/internal/push"
	"github.com/tessadair/bloom/internal/store"
)

// PushHandler manages web push subscriptions. sender is nil when VAPID keys
// are not configured; every endpoint then answers 503.
type PushHandler struct {
	subs   *store.PushStore
	sender *push.Sender
	logger *slog.Logger
}

func NewPushHandler(subs *store.PushStore, sender *push.Sender, logger *slog.Logger) *PushHandler {
	return &PushHandler{subs: subs, sender: sender, logger: logger}
}

func (h *PushHandler) configured(w http.ResponseWriter) bool {
	if h.sender == nil {
		writeError(w, http.StatusServiceUnavailable, "push notifications not configured")
		return false
	}
	return true
}

func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": h.sender.VAPIDPublicKey()})
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	userID := auth.UserID(r.Context())

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Endpoint = strings.TrimSpace(req.Endpoint)
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub, err := h.subs.SaveSubscription(userID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		h.logger.Error("save subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong, try again")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	userID := auth.UserID(r.Context())

	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "endpoint is required")
		return
	}

	if err := h.subs.DeleteByEndpoint(userID, req.Endpoint); err != nil {
		h.logger.Error("delete subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong, try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}
