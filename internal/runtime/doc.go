// ABOUTME: Package documentation for the container runtime layer
// ABOUTME: Describes the Runtime interface and its Docker implementation

// Package runtime abstracts the container daemon behind a small lifecycle
// interface. The gateway's HTTP handlers are its only consumers; the auth
// subsystem has no dependency on it.
//
// DockerRuntime is the production implementation, built on the Docker engine
// API client with environment-based configuration and API version
// negotiation. Status responses merge the daemon's list view (name, state)
// with inspect data (memory, CPU shares, image).
package runtime
