// Package http implements the HTTP transport for listening2go.
//
// This transport serves the single-page UI, the JSON API the page drives,
// the rendered WAV files, Prometheus metrics and the Swagger UI.
package http

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nadzzz/listening2go/internal/transport"
	"github.com/nadzzz/listening2go/internal/wav"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

//go:embed web/index.html
var webFS embed.FS

// maxBodyBytes bounds JSON and PCM request bodies.
const maxBodyBytes = 25 << 20

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port          int
	defaultFormat wav.Format
	metrics       http.Handler // nil when metrics are disabled
	server        *http.Server
}

// New creates a new HTTP transport on the given port. defaultFormat is the
// PCM layout assumed by POST /api/wav when the query omits it.
func New(port int, defaultFormat wav.Format, metrics http.Handler) *Transport {
	return &Transport{port: port, defaultFormat: defaultFormat, metrics: metrics}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler builds the route table for svc.
func (t *Transport) Handler(svc transport.Service) http.Handler {
	a := &api{svc: svc, defaultFormat: t.defaultFormat}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.handleIndex)

	mux.HandleFunc("GET /api/levels", a.handleLevels)
	mux.HandleFunc("GET /api/voices", a.handleVoices)

	mux.HandleFunc("POST /api/sessions", a.handleNewSession)
	mux.HandleFunc("GET /api/sessions/{id}", a.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", a.handleCloseSession)
	mux.HandleFunc("PUT /api/sessions/{id}/form", a.handleUpdateForm)
	mux.HandleFunc("POST /api/sessions/{id}/dialogue", a.handleGenerateDialogue)
	mux.HandleFunc("POST /api/sessions/{id}/audio", a.handleGenerateAudio)
	mux.HandleFunc("POST /api/sessions/{id}/player", a.handlePlayerEvent)
	mux.HandleFunc("PUT /api/sessions/{id}/theme", a.handleTheme)
	mux.HandleFunc("POST /api/sessions/{id}/theme/toggle", a.handleToggleTheme)

	mux.HandleFunc("GET /api/audio/{handle}", a.handleAudio)
	mux.HandleFunc("POST /api/wav", a.handleEncodeWAV)

	if t.metrics != nil {
		mux.Handle("GET /metrics", t.metrics)
	}

	// Swagger UI serves the registered OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return logRequests(mux)
}

// Listen starts the HTTP server and serves requests from svc.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.Handler(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
