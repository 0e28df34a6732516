// Package docker provides Docker Engine API wrappers used by dbdock to
// observe the state of the Compose project.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Listing the containers of one Compose project via the
//     "com.docker.compose.project" label
//   - Deriving the Running/Stopped project state from container states
//
// dbdock never starts or stops containers through the API: lifecycle changes
// go through the orchestration CLI. The API is only used for point-in-time
// queries, which is why nothing here takes a lock.
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
