package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tessadair/bloom/internal/auth"
	"github.com/tessadair/bloom/internal/service"
	"github.com/tessadair/bloom/internal/websocket"
)

type GoalHandler struct {
	svc    *service.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewGoalHandler(svc *service.Service, hub *websocket.Hub, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{svc: svc, hub: hub, logger: logger}
}

func (h *GoalHandler) notify(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Send(userID, msg)
	}
}

type goalRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Emoji         string `json:"emoji"`
	Difficulty    string `json:"difficulty"`
	RecurringDays []int  `json:"recurring_days"`
}

func (r goalRequest) input() service.GoalInput {
	return service.GoalInput{
		Title:         r.Title,
		Description:   r.Description,
		Emoji:         r.Emoji,
		Difficulty:    r.Difficulty,
		RecurringDays: r.RecurringDays,
	}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	g, err := h.svc.CreateGoal(userID, req.input())
	if err != nil {
		writeServiceError(w, h.logger, "create goal", err)
		return
	}

	h.notify(userID, websocket.NewMessage("goal", "created", g.ID, nil))
	writeJSON(w, http.StatusCreated, g)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	goals, err := h.svc.ListGoals(userID)
	if err != nil {
		writeServiceError(w, h.logger, "list goals", err)
		return
	}
	if goals == nil {
		goals = []service.GoalWithStatus{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	g, err := h.svc.GetGoal(userID, id)
	if err != nil {
		writeServiceError(w, h.logger, "get goal", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	g, err := h.svc.UpdateGoal(userID, id, req.input())
	if err != nil {
		writeServiceError(w, h.logger, "update goal", err)
		return
	}

	h.notify(userID, websocket.NewMessage("goal", "updated", g.ID, nil))
	writeJSON(w, http.StatusOK, g)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteGoal(userID, id); err != nil {
		writeServiceError(w, h.logger, "delete goal", err)
		return
	}

	h.notify(userID, websocket.NewMessage("goal", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Complete attempts a completion. A duplicate attempt (or a lost race) is a
// 200 with rewarded=false, not an error; clients can retry safely.
func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	result, err := h.svc.CompleteGoal(userID, id)
	if err != nil {
		writeServiceError(w, h.logger, "complete goal", err)
		return
	}

	if result.Rewarded {
		h.notify(userID, websocket.NewMessage("goal", "completed", id, map[string]any{
			"amount": result.Amount,
		}))
	}
	writeJSON(w, http.StatusOK, result)
}
