package docker

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// makeTestContainer is a helper that creates a model.ContainerInfo carrying
// the Compose labels for project "shop".
func makeTestContainer(id, name, service, state string) model.ContainerInfo {
	return model.ContainerInfo{
		ContainerID:   id,
		ContainerName: name,
		ServiceName:   service,
		State:         state,
		Labels: map[string]string{
			LabelProject: "shop",
			LabelService: service,
		},
	}
}

// TestContainerToInfo verifies the mapping from the Docker API summary,
// including stripping the leading "/" from the container name.
func TestContainerToInfo(t *testing.T) {
	summary := container.Summary{
		ID:     "0123456789abcdef",
		Names:  []string{"/shop-mysql-1"},
		State:  "running",
		Status: "Up 5 minutes (healthy)",
		Labels: map[string]string{
			LabelProject: "shop",
			LabelService: "mysql",
		},
	}

	info := containerToInfo(summary)

	assert.Equal(t, "0123456789abcdef", info.ContainerID)
	assert.Equal(t, "shop-mysql-1", info.ContainerName)
	assert.Equal(t, "mysql", info.ServiceName)
	assert.Equal(t, "running", info.State)
	assert.Equal(t, "Up 5 minutes (healthy)", info.Status)
	assert.True(t, info.IsRunning())
}

// TestContainerToInfo_NoNames covers a summary without names, which the
// API does not normally return but must not panic.
func TestContainerToInfo_NoNames(t *testing.T) {
	info := containerToInfo(container.Summary{ID: "abc", State: "exited"})
	assert.Empty(t, info.ContainerName)
	assert.Empty(t, info.ServiceName)
	assert.False(t, info.IsRunning())
}

func TestSortContainers(t *testing.T) {
	containers := []model.ContainerInfo{
		makeTestContainer("4", "shop-mysql-10", "mysql", "running"),
		makeTestContainer("3", "shop-mysql-2", "mysql", "running"),
		makeTestContainer("1", "shop-adminer-1", "adminer", "running"),
		makeTestContainer("2", "shop-mysql-1", "mysql", "exited"),
	}

	SortContainers(containers)

	assert.Equal(t, "shop-adminer-1", containers[0].ContainerName)
	assert.Equal(t, "shop-mysql-1", containers[1].ContainerName)
	assert.Equal(t, "shop-mysql-2", containers[2].ContainerName)
	assert.Equal(t, "shop-mysql-10", containers[3].ContainerName, "names sort naturally")
}

func TestInspector_ConnectError(t *testing.T) {
	inner := errors.New("socket missing")
	i := &Inspector{connect: func() (*Client, error) {
		return nil, model.WrapCLIError(model.KindDockerUnavailable, "Docker socket not found", inner)
	}}

	_, err := i.ProjectContainers(context.Background(), "shop")
	require.Error(t, err)
	assert.Equal(t, model.KindDockerUnavailable, model.KindOf(err))
	assert.True(t, errors.Is(err, inner))
	assert.Nil(t, i.cli)
	assert.NoError(t, i.Close())
}

func TestDetectUnixSocket_NotFound(t *testing.T) {
	_, err := detectUnixSocket([]string{"/nonexistent/docker.sock"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/docker.sock")
}

func TestDetectUnixSocket_Found(t *testing.T) {
	dir := t.TempDir()
	host, err := detectUnixSocket([]string{"/nonexistent/docker.sock", dir})
	require.NoError(t, err)
	assert.Equal(t, "unix://"+dir, host)
}
