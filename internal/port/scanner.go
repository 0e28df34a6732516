package port

import (
	"fmt"
	"net"
	"strings"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// Checker reports whether a host port is free. Scanner is the production
// implementation; tests substitute their own.
type Checker interface {
	IsPortAvailable(port int, protocol string) bool
}

// Scanner checks whether specific ports are available on the host machine
// by asking the operating system's network stack directly, rather than
// parsing /proc/net/* or shelling out to lsof or ss.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable checks whether a single port is free on the host machine.
//
// It binds to all interfaces (":port") because Docker publishes ports on
// 0.0.0.0 by default. Returns false if the port is in use or the protocol is
// neither "tcp" nor "udp".
func (s *Scanner) IsPortAvailable(port int, protocol string) bool {
	addr := fmt.Sprintf(":%d", port)

	switch protocol {
	case "tcp", "":
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = listener.Close() }()
		return true

	case "udp":
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = conn.Close() }()
		return true

	default:
		// Unknown protocol: treat as unavailable.
		return false
	}
}

// Conflicts returns the ports from wanted that the checker reports as
// already in use, in input order.
func Conflicts(checker Checker, wanted []model.HostPort) []model.HostPort {
	var busy []model.HostPort
	for _, p := range wanted {
		if !checker.IsPortAvailable(p.Port, p.Protocol) {
			busy = append(busy, p)
		}
	}
	return busy
}

// CheckAvailable returns a CLIError of kind KindPortConflict listing every
// port in wanted that is already bound, or nil when all are free. Where a
// free replacement exists it is named in the message.
func CheckAvailable(checker Checker, wanted []model.HostPort) error {
	busy := Conflicts(checker, wanted)
	if len(busy) == 0 {
		return nil
	}

	suggester := NewSuggester(checker)
	suggester.Reserve(wanted)

	ports := make([]int, 0, len(busy))
	var hints []string
	for _, p := range busy {
		ports = append(ports, p.Port)
		if alt, err := suggester.Suggest(p); err == nil {
			hints = append(hints, fmt.Sprintf("%d->%d", p.Port, alt))
		}
	}

	msg := fmt.Sprintf("port conflict: the following host ports are already in use: %v", ports)
	if len(hints) > 0 {
		msg += fmt.Sprintf(" (free alternatives: %s)", strings.Join(hints, ", "))
	}
	return model.NewCLIError(model.KindPortConflict, msg)
}
