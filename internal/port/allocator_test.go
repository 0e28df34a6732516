package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// TestSuggest_NextFreePort verifies that the first free port above the busy
// one is proposed.
func TestSuggest_NextFreePort(t *testing.T) {
	s := NewSuggester(fakeChecker{busy: map[int]bool{3306: true, 3307: true}})

	port, err := s.Suggest(model.HostPort{Port: 3306, ContainerPort: 3306})
	require.NoError(t, err)
	assert.Equal(t, 3308, port)
}

// TestSuggest_NoRepeats verifies that two conflicts never get the same
// replacement, and that reserved ports are skipped.
func TestSuggest_NoRepeats(t *testing.T) {
	s := NewSuggester(fakeChecker{busy: map[int]bool{3306: true, 3307: true}})
	s.Reserve([]model.HostPort{{Port: 3308, Protocol: "tcp"}})

	first, err := s.Suggest(model.HostPort{Port: 3306, Protocol: "tcp"})
	require.NoError(t, err)
	second, err := s.Suggest(model.HostPort{Port: 3307, Protocol: "tcp"})
	require.NoError(t, err)

	assert.Equal(t, 3309, first)
	assert.Equal(t, 3310, second)
}

// TestSuggest_ProtocolsAreIndependent verifies that a reserved TCP port can
// still be proposed for UDP.
func TestSuggest_ProtocolsAreIndependent(t *testing.T) {
	s := NewSuggester(fakeChecker{busy: map[int]bool{}})
	s.Reserve([]model.HostPort{{Port: 5001, Protocol: "tcp"}})

	port, err := s.Suggest(model.HostPort{Port: 5000, Protocol: "udp"})
	require.NoError(t, err)
	assert.Equal(t, 5001, port)
}

// TestSuggest_FallbackToDynamicRange verifies that when the whole window
// above the port is busy, the dynamic range is searched.
func TestSuggest_FallbackToDynamicRange(t *testing.T) {
	busy := map[int]bool{}
	for p := 3306; p <= 3306+searchWindow; p++ {
		busy[p] = true
	}
	s := NewSuggester(fakeChecker{busy: busy})

	port, err := s.Suggest(model.HostPort{Port: 3306})
	require.NoError(t, err)
	assert.Equal(t, dynamicRangeStart, port)
}

// TestSuggest_TopOfRange verifies that the window is clamped at 65535.
func TestSuggest_TopOfRange(t *testing.T) {
	s := NewSuggester(fakeChecker{busy: map[int]bool{65535: true}})

	port, err := s.Suggest(model.HostPort{Port: 65535})
	require.NoError(t, err)
	assert.Equal(t, dynamicRangeStart, port)
}

// TestSuggest_NothingFree verifies the error when every candidate is busy.
func TestSuggest_NothingFree(t *testing.T) {
	busy := map[int]bool{}
	for p := 3000; p <= maxPort; p++ {
		busy[p] = true
	}
	s := NewSuggester(fakeChecker{busy: busy})

	_, err := s.Suggest(model.HostPort{Port: 3306})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no alternative found")
}
