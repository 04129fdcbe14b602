// Package telemetry sets up the OpenTelemetry meter provider and exposes the
// collected metrics in Prometheus format.
package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"

	"github.com/nadzzz/listening2go/internal/config"
)

const meterName = "github.com/nadzzz/listening2go"

// Provider owns the meter provider and the /metrics handler.
type Provider struct {
	MeterProvider metric.MeterProvider

	// Handler serves the Prometheus exposition; nil when metrics are disabled.
	Handler http.Handler

	shutdown func(context.Context) error
}

// Setup builds the provider. With metrics disabled every instrument is a no-op.
func Setup(cfg config.TelemetryConfig, logger *slog.Logger) (*Provider, error) {
	if !cfg.MetricsEnabled {
		logger.Info("metrics disabled")
		return &Provider{
			MeterProvider: noop.NewMeterProvider(),
			shutdown:      func(context.Context) error { return nil },
		}, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	logger.Info("telemetry initialized", slog.String("exporter", "prometheus"))

	return &Provider{
		MeterProvider: mp,
		Handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		shutdown:      mp.Shutdown,
	}, nil
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}

// Metrics are the instruments recorded by the studio.
type Metrics struct {
	requests   metric.Int64Counter
	failures   metric.Int64Counter
	duration   metric.Float64Histogram
	audioBytes metric.Int64Counter
	sessions   metric.Int64UpDownCounter
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)

	requests, err := meter.Int64Counter("listening2go.generations",
		metric.WithDescription("Generation requests by kind"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("listening2go.generation.failures",
		metric.WithDescription("Failed generation requests by kind and reason"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("listening2go.generation.duration",
		metric.WithDescription("Upstream generation latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	audioBytes, err := meter.Int64Counter("listening2go.audio.bytes",
		metric.WithDescription("Bytes of WAV audio rendered"))
	if err != nil {
		return nil, err
	}
	sessions, err := meter.Int64UpDownCounter("listening2go.sessions",
		metric.WithDescription("Open sessions"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests:   requests,
		failures:   failures,
		duration:   duration,
		audioBytes: audioBytes,
		sessions:   sessions,
	}, nil
}

// RecordGeneration records one upstream call. reason is empty on success.
func (m *Metrics) RecordGeneration(ctx context.Context, kind string, elapsed time.Duration, reason string) {
	kindAttr := metric.WithAttributes(attribute.String("kind", kind))
	m.requests.Add(ctx, 1, kindAttr)
	m.duration.Record(ctx, elapsed.Seconds(), kindAttr)
	if reason != "" {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("reason", reason),
		))
	}
}

// AddAudioBytes counts rendered container bytes.
func (m *Metrics) AddAudioBytes(ctx context.Context, n int) {
	m.audioBytes.Add(ctx, int64(n))
}

// SessionOpened tracks a new session.
func (m *Metrics) SessionOpened(ctx context.Context) {
	m.sessions.Add(ctx, 1)
}

// SessionClosed tracks a removed session.
func (m *Metrics) SessionClosed(ctx context.Context) {
	m.sessions.Add(ctx, -1)
}
