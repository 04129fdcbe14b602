// Package health provides the liveness and readiness endpoints.
//
// Docker and Kubernetes use these endpoints to monitor the daemon.
// /healthz reports liveness and answers 200 as soon as the server runs.
// /readyz answers 200 once all transports are started.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port    int
	version string
	started time.Time
	ready   atomic.Bool
	server  *http.Server
}

type status struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// New creates a new health check server.
func New(port int, version string) *Server {
	return &Server{port: port, version: version, started: time.Now()}
}

// SetReady marks the daemon as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler returns the health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.write(w, http.StatusOK, "ok")
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			s.write(w, http.StatusServiceUnavailable, "not_ready")
			return
		}
		s.write(w, http.StatusOK, "ok")
	})

	return mux
}

func (s *Server) write(w http.ResponseWriter, code int, st string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status{
		Status:  st,
		Version: s.version,
		Uptime:  time.Since(s.started).Truncate(time.Second).String(),
	})
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
