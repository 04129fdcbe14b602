// Package grpc implements the gRPC transport for listening2go.
//
// The transport serves the standard grpc.health.v1 service so that load
// balancers and orchestrators can health-check the daemon over gRPC, plus server
// reflection for tooling such as grpcurl.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/nadzzz/listening2go/internal/transport"
)

// ServiceName is the health-checked service name besides the overall "" entry.
const ServiceName = "listening2go.Studio"

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port   int
	server *grpc.Server
	health *grpchealth.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{
		port:   port,
		server: grpc.NewServer(),
		health: grpchealth.NewServer(),
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server on the configured port.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return t.Serve(ctx, lis, svc)
}

// Serve runs the gRPC server on lis until ctx is cancelled. Only health and
// reflection are served; the studio itself is reached over HTTP.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, _ transport.Service) error {
	healthpb.RegisterHealthServer(t.server, t.health)
	reflection.Register(t.server)

	t.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	t.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	slog.Info("grpc transport listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		t.health.Shutdown()
		t.server.GracefulStop()
	}()

	if err := t.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// SetServing updates the health status of ServiceName. The daemon reports
// NOT_SERVING as soon as shutdown starts so health checks drain before GracefulStop.
func (t *Transport) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	t.health.SetServingStatus(ServiceName, status)
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	t.health.Shutdown()
	t.server.GracefulStop()
	return nil
}
