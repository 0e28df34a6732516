package compose

import (
	"sort"
)

// Orchestrator builds Compose command lines for one project. It pins both
// the descriptor (-f) and the project name (-p) so that every command acts
// on the same containers the Docker API query observes.
type Orchestrator struct {
	// Binary is the executable, "docker" for the plugin or
	// "docker-compose" for the standalone binary.
	Binary string

	// BaseArgs precede every command, e.g. ["compose"] for the plugin.
	BaseArgs []string

	// File is the Compose descriptor path.
	File string

	// Project is the Compose project name.
	Project string
}

// NewOrchestrator creates an Orchestrator for the given command line split
// into binary and leading arguments.
func NewOrchestrator(binary string, baseArgs []string, file, project string) *Orchestrator {
	return &Orchestrator{
		Binary:   binary,
		BaseArgs: baseArgs,
		File:     file,
		Project:  project,
	}
}

// args prefixes sub with the base arguments, the descriptor and the
// project name.
func (o *Orchestrator) args(sub ...string) []string {
	args := make([]string, 0, len(o.BaseArgs)+len(sub)+4)
	args = append(args, o.BaseArgs...)
	if o.File != "" {
		args = append(args, "-f", o.File)
	}
	if o.Project != "" {
		args = append(args, "-p", o.Project)
	}
	return append(args, sub...)
}

// Up returns the arguments for "up -d": create and start every declared
// service in detached mode.
func (o *Orchestrator) Up() []string {
	return o.args("up", "-d")
}

// Down returns the arguments for "down": stop and remove the project's
// containers and networks. Named volumes are kept, so data survives.
func (o *Orchestrator) Down() []string {
	return o.args("down")
}

// ExecOptions controls how a command is run inside a service container.
type ExecOptions struct {
	// TTY allocates a pseudo-terminal. When false "-T" is passed, which is
	// required when stdin is a pipe or a file.
	TTY bool

	// Env is passed with one "-e KEY=VALUE" per entry, in key order.
	Env map[string]string

	// Forward names variables passed as a bare "-e KEY". Compose copies
	// their values from its own environment, so they never appear in the
	// host process arguments.
	Forward []string
}

// Exec returns the arguments for running cmd inside service.
func (o *Orchestrator) Exec(service string, opts ExecOptions, cmd ...string) []string {
	sub := []string{"exec"}
	if !opts.TTY {
		sub = append(sub, "-T")
	}

	keys := make([]string, 0, len(opts.Env))
	for k := range opts.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sub = append(sub, "-e", k+"="+opts.Env[k])
	}
	for _, k := range opts.Forward {
		sub = append(sub, "-e", k)
	}

	sub = append(sub, service)
	sub = append(sub, cmd...)
	return o.args(sub...)
}
