package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tessadair/bloom/internal/clock"
	"github.com/tessadair/bloom/internal/handler"
	"github.com/tessadair/bloom/internal/middleware"
	"github.com/tessadair/bloom/internal/push"
	"github.com/tessadair/bloom/internal/service"
	"github.com/tessadair/bloom/internal/store"
	ws "github.com/tessadair/bloom/internal/websocket"
)

// Config holds the server-level knobs main reads from the environment.
type Config struct {
	SecureCookies bool

	// VAPID key pair for web push; both empty disables push endpoints.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	goalH        *handler.GoalHandler
	reflectionH  *handler.ReflectionHandler
	rewardH      *handler.RewardHandler
	profileH     *handler.ProfileHandler
	pushH        *handler.PushHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)

	svc := service.New(db, clock.New(), logger.With("component", "service"))

	var sender *push.Sender
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		sender = push.NewSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	}

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, cfg.SecureCookies, logger.With("component", "auth")),
		goalH:        handler.NewGoalHandler(svc, hub, logger.With("component", "goal")),
		reflectionH:  handler.NewReflectionHandler(svc, hub, logger.With("component", "reflection")),
		rewardH:      handler.NewRewardHandler(svc, hub, logger.With("component", "reward")),
		profileH:     handler.NewProfileHandler(svc, logger.With("component", "profile")),
		pushH:        handler.NewPushHandler(store.NewPushStore(db), sender, logger.With("component", "push")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// StartBackgroundTasks launches housekeeping loops that run until ctx is
// cancelled. Currently that is the rate limiter's bucket eviction; without it
// the per-IP map grows for as long as new clients keep appearing.
func (s *Server) StartBackgroundTasks(ctx context.Context) {
	go s.rateLimiter.CleanupLoop(ctx, 10*time.Minute)
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/logout", s.authH.Logout)

	// Goals
	mux.HandleFunc("POST /api/goals", s.goalH.Create)
	mux.HandleFunc("GET /api/goals", s.goalH.List)
	mux.HandleFunc("GET /api/goals/{id}", s.goalH.Get)
	mux.HandleFunc("PUT /api/goals/{id}", s.goalH.Update)
	mux.HandleFunc("DELETE /api/goals/{id}", s.goalH.Delete)
	mux.HandleFunc("POST /api/goals/{id}/complete", s.goalH.Complete)

	// Reflections
	mux.HandleFunc("POST /api/reflections", s.reflectionH.Create)
	mux.HandleFunc("GET /api/reflections", s.reflectionH.List)
	mux.HandleFunc("POST /api/reflections/mood", s.reflectionH.MoodCheckin)
	mux.HandleFunc("GET /api/prompts", s.reflectionH.Prompts)

	// Rewards
	mux.HandleFunc("POST /api/rewards", s.rewardH.Create)
	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.HandleFunc("PUT /api/rewards/{id}", s.rewardH.Update)
	mux.HandleFunc("DELETE /api/rewards/{id}", s.rewardH.Delete)
	mux.HandleFunc("POST /api/rewards/{id}/activate", s.rewardH.Activate)
	mux.HandleFunc("POST /api/rewards/{id}/purchase", s.rewardH.Purchase)

	// Profile
	mux.HandleFunc("GET /api/me", s.profileH.Me)
	mux.HandleFunc("PUT /api/me/timezone", s.profileH.UpdateTimezone)
	mux.HandleFunc("GET /api/balance", s.profileH.Balance)
	mux.HandleFunc("GET /api/streak", s.profileH.Streak)
	mux.HandleFunc("GET /api/transactions", s.profileH.Transactions)

	// Push notifications
	mux.HandleFunc("GET /api/push/key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	// Live updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
