package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tessadair/bloom/internal/auth"
	"github.com/tessadair/bloom/internal/model"
	"github.com/tessadair/bloom/internal/service"
	"github.com/tessadair/bloom/internal/websocket"
)

type RewardHandler struct {
	svc    *service.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewRewardHandler(svc *service.Service, hub *websocket.Hub, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{svc: svc, hub: hub, logger: logger}
}

func (h *RewardHandler) notify(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Send(userID, msg)
	}
}

type rewardRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Price int    `json:"price"`
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	reward, err := h.svc.CreateReward(userID, service.RewardInput{Name: req.Name, Emoji: req.Emoji, Price: req.Price})
	if err != nil {
		writeServiceError(w, h.logger, "create reward", err)
		return
	}

	h.notify(userID, websocket.NewMessage("reward", "created", reward.ID, nil))
	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	rewards, err := h.svc.ListRewards(userID)
	if err != nil {
		writeServiceError(w, h.logger, "list rewards", err)
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	reward, err := h.svc.UpdateReward(userID, id, service.RewardInput{Name: req.Name, Emoji: req.Emoji, Price: req.Price})
	if err != nil {
		writeServiceError(w, h.logger, "update reward", err)
		return
	}

	h.notify(userID, websocket.NewMessage("reward", "updated", reward.ID, nil))
	writeJSON(w, http.StatusOK, reward)
}

func (h *RewardHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.ActivateReward(userID, id); err != nil {
		writeServiceError(w, h.logger, "activate reward", err)
		return
	}

	h.notify(userID, websocket.NewMessage("reward", "activated", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

func (h *RewardHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.PurchaseReward(userID, id); err != nil {
		writeServiceError(w, h.logger, "purchase reward", err)
		return
	}

	balance, err := h.svc.Balance(userID)
	if err != nil {
		writeServiceError(w, h.logger, "read balance", err)
		return
	}

	h.notify(userID, websocket.NewMessage("reward", "purchased", id, map[string]any{
		"balance": balance,
	}))
	writeJSON(w, http.StatusOK, map[string]any{"status": "purchased", "balance": balance})
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteReward(userID, id); err != nil {
		writeServiceError(w, h.logger, "delete reward", err)
		return
	}

	h.notify(userID, websocket.NewMessage("reward", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
