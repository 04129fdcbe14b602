// Package transport defines the interface for the daemon's network surfaces.
//
// Each transport (HTTP, gRPC) implements this interface and exposes the
// studio through its own protocol. The studio doesn't care how requests
// arrive; it only works with the Service contract.
package transport

import (
	"context"

	"github.com/nadzzz/listening2go/internal/app"
	"github.com/nadzzz/listening2go/internal/audiostore"
	"github.com/nadzzz/listening2go/internal/player"
)

// Service is the application surface a transport exposes.
// *studio.Studio implements it.
type Service interface {
	NewSession(ctx context.Context, darkMode bool) (string, app.State, error)
	Session(id string) (app.State, error)
	CloseSession(ctx context.Context, id string) error
	UpdateForm(id string, form app.Form) (app.State, error)
	SetDarkMode(id string, enabled bool) (app.State, error)
	ToggleDarkMode(id string) (app.State, error)
	PlayerEvent(id string, e player.Event) (app.State, error)
	GenerateDialogue(ctx context.Context, id string) (app.State, error)
	GenerateAudio(ctx context.Context, id string) (app.State, error)
	Audio(handle string) (*audiostore.Entry, error)
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "grpc", "http").
	Name() string

	// Listen starts accepting requests and serves them from svc.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, svc Service) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
