// ABOUTME: Container runtime abstraction consumed by the HTTP API handlers
// ABOUTME: Defines the Runtime interface and the wire-facing Container shape

package runtime

import (
	"context"
	"errors"
)

// ErrContainerNotFound is returned when a named container does not exist.
var ErrContainerNotFound = errors.New("container not found")

// Specs carries the resource configuration of a container. The json keys are
// the wire format API clients already consume.
type Specs struct {
	Memory    int64  `json:"ram"`
	CPUShares int64  `json:"cpu"`
	Image     string `json:"image"`
}

// Container is the status view returned to API clients.
type Container struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
	Specs Specs  `json:"specs"`
}

// Runtime is the lifecycle surface the gateway proxies to. Implementations
// talk to a real daemon; tests substitute a fake.
type Runtime interface {
	// List returns status for the named containers, or for all containers
	// when names is empty. Includes stopped containers.
	List(ctx context.Context, names []string) ([]Container, error)

	// Start starts the named container.
	Start(ctx context.Context, name string) error

	// Stop stops the named container.
	Stop(ctx context.Context, name string) error

	// Restart restarts the named container.
	Restart(ctx context.Context, name string) error

	// Close releases the underlying client connection.
	Close() error
}
