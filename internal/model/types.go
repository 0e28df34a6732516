package model

import (
	"fmt"
)

// ProjectState represents the lifecycle state of the Compose project that
// holds the database container. The transitions are:
//
//	Stopped --start--> Running
//	Running --stop---> Stopped
//	Running --restart--> Stopped --> Running
//
// No intermediate "starting" or "stopping" state is modeled. The state is a
// point-in-time observation of the container runtime.
type ProjectState string

const (
	// StateRunning indicates at least one project container is running.
	StateRunning ProjectState = "running"

	// StateStopped indicates no project container is running. Containers
	// may still exist in an exited state.
	StateStopped ProjectState = "stopped"
)

// String returns the string representation of ProjectState.
func (s ProjectState) String() string {
	return string(s)
}

// ContainerStateRunning is the Docker container state reported for a
// container whose main process is alive.
const ContainerStateRunning = "running"

// ContainerInfo holds runtime information about a Docker container that
// belongs to the managed Compose project. This data is fetched dynamically
// from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name,
	// without the leading "/" the API reports.
	ContainerName string `json:"name"`

	// ServiceName is the Compose service the container was created for.
	ServiceName string `json:"service,omitempty"`

	// State is the short Docker state ("running", "exited", "created", ...).
	State string `json:"state"`

	// Status is Docker's human readable status, e.g. "Up 3 minutes".
	Status string `json:"status,omitempty"`

	// Labels is the full set of Docker labels on the container.
	Labels map[string]string `json:"-"`
}

// IsRunning reports whether the container's main process is alive.
func (c ContainerInfo) IsRunning() bool {
	return c.State == ContainerStateRunning
}

// StateOf derives the project state from its containers. A single running
// container is enough to consider the whole project running.
func StateOf(containers []ContainerInfo) ProjectState {
	for _, c := range containers {
		if c.IsRunning() {
			return StateRunning
		}
	}
	return StateStopped
}

// RunningContainers returns only the containers that are currently running,
// preserving input order.
func RunningContainers(containers []ContainerInfo) []ContainerInfo {
	running := make([]ContainerInfo, 0, len(containers))
	for _, c := range containers {
		if c.IsRunning() {
			running = append(running, c)
		}
	}
	return running
}

// HostPort is a TCP or UDP port the database service publishes on the host,
// as declared in the Compose descriptor.
type HostPort struct {
	// Port is the host-side port number (1-65535).
	Port int `json:"port"`

	// ContainerPort is the port inside the container the host port maps to.
	ContainerPort int `json:"containerPort"`

	// Protocol is "tcp" or "udp". Defaults to "tcp".
	Protocol string `json:"protocol"`
}

// String returns "port->containerPort/protocol".
func (p HostPort) String() string {
	proto := p.Protocol
	if proto == "" {
		proto = "tcp"
	}
	return fmt.Sprintf("%d->%d/%s", p.Port, p.ContainerPort, proto)
}
