package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStateOf checks that one running container is enough to consider the
// project running, and that exited-only or empty projects are stopped.
func TestStateOf(t *testing.T) {
	tests := []struct {
		name       string
		containers []ContainerInfo
		want       ProjectState
	}{
		{name: "nil", containers: nil, want: StateStopped},
		{name: "all exited", containers: []ContainerInfo{
			{ContainerName: "db-1", State: "exited"},
			{ContainerName: "adminer-1", State: "created"},
		}, want: StateStopped},
		{name: "one running", containers: []ContainerInfo{
			{ContainerName: "db-1", State: "exited"},
			{ContainerName: "adminer-1", State: "running"},
		}, want: StateRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateOf(tt.containers))
		})
	}
}

func TestRunningContainers(t *testing.T) {
	containers := []ContainerInfo{
		{ContainerName: "a", State: "running"},
		{ContainerName: "b", State: "exited"},
		{ContainerName: "c", State: "running"},
	}

	running := RunningContainers(containers)
	require.Len(t, running, 2)
	assert.Equal(t, "a", running[0].ContainerName)
	assert.Equal(t, "c", running[1].ContainerName)

	assert.Empty(t, RunningContainers(nil))
}

func TestHostPort_String(t *testing.T) {
	assert.Equal(t, "3306->3306/tcp", HostPort{Port: 3306, ContainerPort: 3306, Protocol: "tcp"}.String())
	assert.Equal(t, "13306->3306/tcp", HostPort{Port: 13306, ContainerPort: 3306}.String())
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(KindContainersNotRunning, "containers are not running")
		assert.Equal(t, ExitGeneralError, err.Code)
		assert.Equal(t, KindContainersNotRunning, err.Kind)
		assert.Equal(t, "containers are not running", err.Error())
		assert.Nil(t, err.Unwrap())
		assert.False(t, err.Silent)
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("no such file or directory")
		err := WrapCLIError(KindMissingConfigFile, "secrets file not found", inner)
		assert.Equal(t, ExitGeneralError, err.Code)
		assert.Contains(t, err.Error(), "no such file or directory")
		assert.Equal(t, inner, err.Unwrap())
	})

	t.Run("errors.Is chain", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := WrapCLIError(KindDockerUnavailable, "Docker daemon is not responding", inner)
		assert.True(t, errors.Is(err, inner))
	})
}

// TestNewSubprocessError checks that the child's exit code is relayed and
// that a non-positive code never turns into success.
func TestNewSubprocessError(t *testing.T) {
	err := NewSubprocessError("docker", 42, errors.New("exit status 42"))
	assert.Equal(t, ExitCode(42), err.Code)
	assert.Equal(t, KindSubprocess, err.Kind)
	assert.True(t, err.Silent)

	err = NewSubprocessError("docker", 0, errors.New("signal: killed"))
	assert.Equal(t, ExitGeneralError, err.Code)

	err = NewSubprocessError("docker", -1, nil)
	assert.Equal(t, ExitGeneralError, err.Code)
}

func TestKindOfAndExitCodeOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, ExitSuccess, ExitCodeOf(nil))

	plain := errors.New("boom")
	assert.Equal(t, KindGeneral, KindOf(plain))
	assert.Equal(t, ExitGeneralError, ExitCodeOf(plain))

	wrapped := fmt.Errorf("running start: %w", NewCLIError(KindContainersAlreadyRunning, "already running"))
	assert.Equal(t, KindContainersAlreadyRunning, KindOf(wrapped))
	assert.Equal(t, ExitGeneralError, ExitCodeOf(wrapped))

	sub := fmt.Errorf("import: %w", NewSubprocessError("docker", 3, nil))
	assert.Equal(t, KindSubprocess, KindOf(sub))
	assert.Equal(t, ExitCode(3), ExitCodeOf(sub))
}
