package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "github.com/nadzzz/listening2go/docs"
	"github.com/nadzzz/listening2go/internal/health"
	"github.com/nadzzz/listening2go/internal/transport"
	grpctransport "github.com/nadzzz/listening2go/internal/transport/grpc"
	httptransport "github.com/nadzzz/listening2go/internal/transport/http"
	"github.com/nadzzz/listening2go/internal/wav"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and API daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		slog.Info("listening2go starting", "version", version)

		// Create root context with signal handling for graceful shutdown.
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		rt, err := newRuntime(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			if err := rt.Close(closeCtx); err != nil {
				slog.Error("runtime close error", "error", err)
			}
		}()

		// Initialize enabled transports.
		var (
			transports []transport.Transport
			grpcT      *grpctransport.Transport
		)
		if cfg.Transports.HTTP.Enabled {
			defaultFormat := wav.Format{
				SampleRate:    cfg.Audio.SampleRate,
				Channels:      cfg.Audio.Channels,
				BitsPerSample: cfg.Audio.BitsPerSample,
			}
			transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port, defaultFormat, rt.telemetry.Handler))
		}
		if cfg.Transports.GRPC.Enabled {
			grpcT = grpctransport.New(cfg.Transports.GRPC.Port)
			transports = append(transports, grpcT)
		}
		if len(transports) == 0 {
			return errors.New("no transports enabled, enable at least one in config")
		}

		// Start health check server.
		healthServer := health.New(cfg.Server.HealthPort, version)
		go func() {
			if err := healthServer.ListenAndServe(ctx); err != nil {
				slog.Error("health server failed", "error", err)
			}
		}()

		// Reclaim sessions abandoned by their browser tab.
		if ttl := cfg.Limits.SessionIdleTTL; ttl > 0 {
			go rt.studio.RunExpiry(ctx, expiryInterval(ttl))
		}

		// Start all transports.
		var wg sync.WaitGroup
		for _, t := range transports {
			wg.Add(1)
			go func(t transport.Transport) {
				defer wg.Done()
				slog.Info("starting transport", "name", t.Name())
				if err := t.Listen(ctx, rt.studio); err != nil {
					slog.Error("transport failed", "name", t.Name(), "error", err)
				}
			}(t)
		}

		// Mark as ready once all transports are started.
		healthServer.SetReady(true)
		slog.Info("listening2go ready",
			"transports", len(transports),
			"health_port", cfg.Server.HealthPort)

		// Block until shutdown signal.
		<-ctx.Done()
		healthServer.SetReady(false)
		if grpcT != nil {
			grpcT.SetServing(false)
		}
		slog.Info("shutdown signal received, draining...",
			"open_sessions", rt.studio.SessionCount())

		for _, t := range transports {
			if err := t.Close(); err != nil {
				slog.Error("transport close error", "name", t.Name(), "error", err)
			}
		}

		wg.Wait()
		slog.Info("listening2go stopped")
		return nil
	},
}

// expiryInterval sweeps a few times per TTL, at most once a second.
func expiryInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Second)
}
