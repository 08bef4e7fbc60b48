// Package opsapi serves a small HTTP endpoint for health checks and store
// statistics.
package opsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/steamkeeper/internal/logging"
)

// Counter reports how many accounts are stored.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type Server struct {
	accounts Counter
	log      logging.Logger
	started  time.Time
	router   *chi.Mux
	server   *http.Server
}

func NewServer(accounts Counter, log logging.Logger) *Server {
	s := &Server{
		accounts: accounts,
		log:      log,
		started:  time.Now(),
		router:   chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(10 * time.Second))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	return s
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "ops endpoint listening", "addr", addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

type healthResponse struct {
	Status string `json:"status"`
}

type statsResponse struct {
	Accounts int    `json:"accounts"`
	Uptime   string `json:"uptime"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	n, err := s.accounts.Count(r.Context())
	if err != nil {
		reqID := middleware.GetReqID(r.Context())
		s.log.Error(r.Context(), "failed to count accounts", "error", err, "request_id", reqID)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "store unavailable", RequestID: reqID})
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Accounts: n,
		Uptime:   time.Since(s.started).Truncate(time.Second).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
