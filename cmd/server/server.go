package main

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/benjamonnguyen/focusflow"
	"github.com/benjamonnguyen/focusflow/timer"
)

type serverDeps struct {
	cfg           focusflow.Config
	machine       *timer.Machine
	sessions      focusflow.TimerSessionRepo
	goals         focusflow.GoalRepo
	categories    focusflow.CategoryRepo
	users         focusflow.UserRepo
	notifications focusflow.NotificationRepo
	stats         focusflow.StatsRepo
	auth          *authService
	l             log.Logger
}

type server struct {
	serverDeps
}

func newServer(deps serverDeps) *server {
	return &server{serverDeps: deps}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/api/timers", func(r chi.Router) {
			r.Post("/", s.handleStartTimer)
			r.Get("/", s.handleListTimers)
			r.Get("/active", s.handleActiveTimer)
			r.Get("/{id}", s.handleGetTimer)
			r.Post("/{id}/pause", s.handlePauseTimer)
			r.Post("/{id}/resume", s.handleResumeTimer)
			r.Post("/{id}/complete", s.handleCompleteTimer)
			r.Post("/{id}/cancel", s.handleCancelTimer)
		})

		r.Route("/api/goals", func(r chi.Router) {
			r.Post("/", s.handleCreateGoal)
			r.Get("/", s.handleListGoals)
			r.Get("/{id}", s.handleGetGoal)
			r.Put("/{id}", s.handleUpdateGoal)
			r.Delete("/{id}", s.handleDeleteGoal)
		})

		r.Route("/api/categories", func(r chi.Router) {
			r.Post("/", s.handleCreateCategory)
			r.Get("/", s.handleListCategories)
			r.Put("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/api/users/me", func(r chi.Router) {
			r.Get("/", s.handleGetMe)
			r.Put("/", s.handleUpdateMe)
		})

		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Post("/{id}/read", s.handleMarkNotificationRead)
			r.Delete("/{id}", s.handleDeleteNotification)
		})

		r.Route("/api/stats", func(r chi.Router) {
			r.Get("/summary", s.handleStatsSummary)
			r.Get("/daily", s.handleStatsDaily)
			r.Get("/kinds", s.handleStatsKinds)
		})
	})

	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.l.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
