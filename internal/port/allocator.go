package port

import (
	"fmt"

	"github.com/shinji-kodama/dbdock/internal/model"
)

const (
	// searchWindow is how far above a busy port the suggester looks before
	// falling back to the dynamic range.
	searchWindow = 100

	// maxPort is the highest valid TCP/UDP port number (2^16 - 1).
	maxPort = 65535

	// dynamicRangeStart is the start of the IANA dynamic/private port range.
	// When nothing is free near the wanted port, we fall back to searching
	// for a free port in this range (49152-65535).
	dynamicRangeStart = 49152

	// dynamicRangeEnd is the end of the dynamic port range.
	dynamicRangeEnd = 65535
)

// Suggester proposes replacement host ports for ports that are already
// bound, so a conflict report can tell the user what to publish instead.
//
// The search is deterministic: the first free port above the wanted one
// within searchWindow, otherwise the first free port in the dynamic range.
// Ports handed out earlier by the same Suggester are never proposed twice.
type Suggester struct {
	// checker probes the OS for actual port availability.
	checker Checker

	// taken tracks ports already proposed or still wanted, keyed by
	// "port/protocol".
	taken map[string]bool
}

// NewSuggester creates a Suggester that probes ports with checker.
func NewSuggester(checker Checker) *Suggester {
	return &Suggester{
		checker: checker,
		taken:   make(map[string]bool),
	}
}

// Reserve marks ports as unavailable for suggestions, e.g. the other ports
// the service publishes.
func (s *Suggester) Reserve(ports []model.HostPort) {
	for _, p := range ports {
		s.taken[portKey(p.Port, p.Protocol)] = true
	}
}

// Suggest returns a free host port to use instead of p.
func (s *Suggester) Suggest(p model.HostPort) (int, error) {
	protocol := p.Protocol
	if protocol == "" {
		protocol = "tcp"
	}

	end := p.Port + searchWindow
	if end > maxPort {
		end = maxPort
	}
	if port, err := s.find(p.Port+1, end, protocol); err == nil {
		return port, nil
	}

	port, err := s.find(dynamicRangeStart, dynamicRangeEnd, protocol)
	if err != nil {
		return 0, fmt.Errorf("port %d is in use and no alternative found: %w", p.Port, err)
	}
	return port, nil
}

// find searches a port range for the first port that is both OS-available
// and not yet taken, and records it as taken.
func (s *Suggester) find(startPort, endPort int, protocol string) (int, error) {
	for port := startPort; port <= endPort; port++ {
		key := portKey(port, protocol)
		if s.taken[key] {
			continue
		}
		if s.checker.IsPortAvailable(port, protocol) {
			s.taken[key] = true
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available %s port found in range %d-%d", protocol, startPort, endPort)
}

func portKey(port int, protocol string) string {
	if protocol == "" {
		protocol = "tcp"
	}
	return fmt.Sprintf("%d/%s", port, protocol)
}
