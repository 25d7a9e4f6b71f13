// Package docker manages the stack's PostgreSQL dev container through the
// Docker Engine SDK.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Creating and starting a labeled postgres container whose
//     credentials and host port come from the resolved DB configuration
//   - Discovering that container again by label for `db status` and
//     `db down` — never by guessing names
//
// The package uses github.com/docker/docker/client as the underlying SDK,
// with version negotiation enabled for broad daemon compatibility.
package docker
