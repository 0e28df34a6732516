package docker

import (
	"github.com/docker/docker/api/types/filters"
)

// Compose label keys. Docker Compose sets these on every container it
// creates; dbdock reads them and never writes its own.
const (
	// LabelComposePrefix is the common prefix of all Compose labels.
	LabelComposePrefix = "com.docker.compose."

	// LabelProject holds the Compose project name.
	LabelProject = LabelComposePrefix + "project"

	// LabelService holds the Compose service name.
	LabelService = LabelComposePrefix + "service"

	// LabelContainerNumber holds the replica number within the service.
	LabelContainerNumber = LabelComposePrefix + "container-number"

	// LabelOneOff is "True" for containers created by "compose run".
	LabelOneOff = LabelComposePrefix + "oneoff"
)

// ProjectFilter builds the Docker API filter that matches only the
// containers of project. The daemon applies it.
func ProjectFilter(project string) filters.Args {
	return filters.NewArgs(
		filters.Arg("label", LabelProject+"="+project),
	)
}

// IsOneOff reports whether labels belong to a "compose run" container.
// Those are transient and do not count as project services.
func IsOneOff(labels map[string]string) bool {
	return labels[LabelOneOff] == "True"
}
