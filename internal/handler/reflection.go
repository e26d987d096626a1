package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tessadair/bloom/internal/auth"
	"github.com/tessadair/bloom/internal/model"
	"github.com/tessadair/bloom/internal/reflection"
	"github.com/tessadair/bloom/internal/service"
	"github.com/tessadair/bloom/internal/websocket"
)

type ReflectionHandler struct {
	svc    *service.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewReflectionHandler(svc *service.Service, hub *websocket.Hub, logger *slog.Logger) *ReflectionHandler {
	return &ReflectionHandler{svc: svc, hub: hub, logger: logger}
}

func (h *ReflectionHandler) notify(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Send(userID, msg)
	}
}

type reflectionRequest struct {
	Type    string `json:"type"`
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

func (h *ReflectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req reflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	refl, err := h.svc.RecordReflection(userID, service.ReflectionInput{
		Type:    req.Type,
		Prompt:  req.Prompt,
		Content: req.Content,
	})
	if err != nil {
		writeServiceError(w, h.logger, "record reflection", err)
		return
	}

	h.notify(userID, websocket.NewMessage("reflection", "created", refl.ID, map[string]any{
		"earned": refl.CurrencyEarned,
	}))
	writeJSON(w, http.StatusCreated, refl)
}

type moodRequest struct {
	Mood string `json:"mood"`
}

func (h *ReflectionHandler) MoodCheckin(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	refl, err := h.svc.RecordMoodCheckin(userID, req.Mood)
	if err != nil {
		writeServiceError(w, h.logger, "record mood checkin", err)
		return
	}

	h.notify(userID, websocket.NewMessage("reflection", "created", refl.ID, map[string]any{
		"earned": refl.CurrencyEarned,
	}))
	writeJSON(w, http.StatusCreated, refl)
}

func (h *ReflectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	reflections, err := h.svc.ListReflections(userID)
	if err != nil {
		writeServiceError(w, h.logger, "list reflections", err)
		return
	}
	if reflections == nil {
		reflections = []model.Reflection{}
	}
	writeJSON(w, http.StatusOK, reflections)
}

// Prompts returns a random handful of writing prompts.
func (h *ReflectionHandler) Prompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"prompts": reflection.RandomPrompts(4),
	})
}
