package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// fakeChecker reports the ports in busy as unavailable.
type fakeChecker struct {
	busy map[int]bool
}

func (f fakeChecker) IsPortAvailable(port int, _ string) bool {
	return !f.busy[port]
}

// freeTCPPort asks the OS for a port that is free right now.
func freeTCPPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

// TestIsPortAvailable_FreePort verifies that a port nobody holds is
// reported as available.
func TestIsPortAvailable_FreePort(t *testing.T) {
	port := freeTCPPort(t)

	scanner := NewScanner()
	assert.True(t, scanner.IsPortAvailable(port, "tcp"), "port %d should be available", port)
	assert.True(t, scanner.IsPortAvailable(port, ""), "empty protocol defaults to tcp")
}

// TestIsPortAvailable_UsedPort verifies that a port held by a listener is
// reported as in use.
func TestIsPortAvailable_UsedPort(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "failed to start test listener")
	defer func() { _ = listener.Close() }()

	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)

	scanner := NewScanner()
	assert.False(t, scanner.IsPortAvailable(tcpAddr.Port, "tcp"),
		"port %d should be in use (we have a listener on it)", tcpAddr.Port)
}

// TestIsPortAvailable_UDP verifies UDP port scanning.
func TestIsPortAvailable_UDP(t *testing.T) {
	conn, err := net.ListenPacket("udp", ":0")
	require.NoError(t, err, "failed to start test UDP listener")
	defer func() { _ = conn.Close() }()

	udpAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	require.True(t, ok)

	scanner := NewScanner()
	assert.False(t, scanner.IsPortAvailable(udpAddr.Port, "udp"), "UDP port %d should be in use", udpAddr.Port)
}

// TestIsPortAvailable_UnknownProtocol verifies that an unrecognized protocol
// is reported as unavailable.
func TestIsPortAvailable_UnknownProtocol(t *testing.T) {
	scanner := NewScanner()
	assert.False(t, scanner.IsPortAvailable(50000, "sctp"))
}

func TestConflicts(t *testing.T) {
	checker := fakeChecker{busy: map[int]bool{3306: true, 8080: true}}
	wanted := []model.HostPort{
		{Port: 8080, ContainerPort: 80, Protocol: "tcp"},
		{Port: 33060, ContainerPort: 33060, Protocol: "tcp"},
		{Port: 3306, ContainerPort: 3306, Protocol: "tcp"},
	}

	busy := Conflicts(checker, wanted)
	require.Len(t, busy, 2)
	assert.Equal(t, 8080, busy[0].Port)
	assert.Equal(t, 3306, busy[1].Port)

	assert.Empty(t, Conflicts(checker, nil))
}

func TestCheckAvailable(t *testing.T) {
	checker := fakeChecker{busy: map[int]bool{3306: true}}

	assert.NoError(t, CheckAvailable(checker, []model.HostPort{{Port: 13306, Protocol: "tcp"}}))

	err := CheckAvailable(checker, []model.HostPort{
		{Port: 3306, ContainerPort: 3306, Protocol: "tcp"},
		{Port: 13306, ContainerPort: 3306, Protocol: "tcp"},
	})
	require.Error(t, err)
	assert.Equal(t, model.KindPortConflict, model.KindOf(err))
	assert.Contains(t, err.Error(), "[3306]")
	assert.Contains(t, err.Error(), "free alternatives: 3306->3307")
}

// TestCheckAvailable_RealListener ties the scanner and the check together.
func TestCheckAvailable_RealListener(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()
	port := listener.Addr().(*net.TCPAddr).Port

	err = CheckAvailable(NewScanner(), []model.HostPort{{Port: port, Protocol: "tcp"}})
	require.Error(t, err)
	assert.Equal(t, model.KindPortConflict, model.KindOf(err))
}
