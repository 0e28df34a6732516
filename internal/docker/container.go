package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/facette/natsort"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// ListProjectContainers queries the Docker daemon for every container of the
// Compose project, including stopped ones. One-off "compose run" containers
// are excluded. The result is sorted by service and container name so that
// status output is stable.
func ListProjectContainers(ctx context.Context, cli *Client, project string) ([]model.ContainerInfo, error) {
	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: ProjectFilter(project),
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.KindDockerUnavailable,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		if IsOneOff(c.Labels) {
			continue
		}
		result = append(result, containerToInfo(c))
	}

	SortContainers(result)
	return result, nil
}

// containerToInfo converts a Docker API container summary to the domain
// model. The API reports names with a leading "/" which is stripped.
func containerToInfo(c container.Summary) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		ServiceName:   c.Labels[LabelService],
		State:         c.State,
		Status:        c.Status,
		Labels:        c.Labels,
	}
}

// SortContainers orders containers by service name, then container name in
// natural order, so that "shop-mysql-2" precedes "shop-mysql-10".
func SortContainers(containers []model.ContainerInfo) {
	sort.SliceStable(containers, func(i, j int) bool {
		if containers[i].ServiceName != containers[j].ServiceName {
			return containers[i].ServiceName < containers[j].ServiceName
		}
		return natsort.Compare(containers[i].ContainerName, containers[j].ContainerName)
	})
}

// Inspector answers "which containers does the project have right now" for
// the CLI. It connects lazily on first use, so commands that never query the
// daemon (usage, mysql:*) never require it to be up.
type Inspector struct {
	connect func() (*Client, error)
	cli     *Client
}

// NewInspector creates an Inspector that connects with NewClient.
func NewInspector() *Inspector {
	return &Inspector{connect: NewClient}
}

// ProjectContainers lists the containers of project. The first call creates
// the client and pings the daemon.
func (i *Inspector) ProjectContainers(ctx context.Context, project string) ([]model.ContainerInfo, error) {
	if i.cli == nil {
		cli, err := i.connect()
		if err != nil {
			return nil, err
		}
		if err := cli.Ping(ctx); err != nil {
			_ = cli.Close()
			return nil, err
		}
		i.cli = cli
	}

	containers, err := ListProjectContainers(ctx, i.cli, project)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", project, err)
	}
	return containers, nil
}

// Close releases the client, if one was created.
func (i *Inspector) Close() error {
	if i.cli == nil {
		return nil
	}
	err := i.cli.Close()
	i.cli = nil
	return err
}
