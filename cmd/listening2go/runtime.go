package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nadzzz/listening2go/internal/audiostore"
	"github.com/nadzzz/listening2go/internal/config"
	"github.com/nadzzz/listening2go/internal/generator"
	"github.com/nadzzz/listening2go/internal/generator/gemini"
	"github.com/nadzzz/listening2go/internal/studio"
	"github.com/nadzzz/listening2go/internal/telemetry"
)

// runtime holds the components shared by serve and generate.
type runtime struct {
	backend   generator.Backend
	studio    *studio.Studio
	telemetry *telemetry.Provider
}

// newBackend builds the configured generator backend. Tests replace it.
var newBackend = func(ctx context.Context, cfg *config.Config) (generator.Backend, error) {
	switch cfg.Generator.Backend {
	case "gemini":
		b, err := gemini.New(ctx, cfg.Generator.Gemini, cfg.Audio)
		if err != nil {
			return nil, err
		}
		slog.Info("using Gemini backend",
			"text_model", cfg.Generator.Gemini.TextModel,
			"speech_model", cfg.Generator.Gemini.SpeechModel)
		return b, nil
	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.Generator.Backend)
	}
}

func newRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp, err := telemetry.Setup(cfg.Telemetry, slog.Default())
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}
	metrics, err := telemetry.NewMetrics(tp.MeterProvider)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &runtime{
		backend:   backend,
		studio:    studio.New(backend, audiostore.New(), metrics, cfg.Limits),
		telemetry: tp,
	}, nil
}

func (r *runtime) Close(ctx context.Context) error {
	return errors.Join(r.backend.Close(), r.telemetry.Shutdown(ctx))
}
