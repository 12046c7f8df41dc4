// Package web exposes the session store and analyzer over a JSON HTTP API.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	"github.com/handora/gamesapi/internal/ports"
	"github.com/handora/gamesapi/internal/store"
)

// Config holds server-specific configuration.
type Config struct {
	Port       int
	CORSOrigin string
}

type Server struct {
	cfg      Config
	store    *store.Store
	analyzer ports.Analyzer
	metrics  ports.MetricsExporter
	logger   *slog.Logger
	handler  http.Handler
}

func NewServer(cfg Config, st *store.Store, analyzer ports.Analyzer, metrics ports.MetricsExporter, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		analyzer: analyzer,
		metrics:  metrics,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions/start", s.handleStartSession)
		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions/{id}/warmup", s.handleWarmup)
		r.Post("/sessions/{id}/events", s.handleRecordEvent)
		r.Post("/sessions/{id}/finish", s.handleFinishSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/sessions/{id}/with-history", s.handleGetSessionWithHistory)

		r.Get("/analytics/highscores", s.handleHighscores)
		r.Post("/analytics/analyze", s.handleAnalyze)
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.CORSOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)
	s.handler = cors(r)
	return s
}

// Handler returns the fully wired HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("http server starting", "addr", server.Addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
