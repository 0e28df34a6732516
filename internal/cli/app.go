package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/shinji-kodama/dbdock/internal/compose"
	"github.com/shinji-kodama/dbdock/internal/config"
	"github.com/shinji-kodama/dbdock/internal/docker"
	"github.com/shinji-kodama/dbdock/internal/model"
	"github.com/shinji-kodama/dbdock/internal/mysql"
	"github.com/shinji-kodama/dbdock/internal/port"
	"github.com/shinji-kodama/dbdock/internal/runner"
)

// ContainerLister reports the containers of a Compose project.
// *docker.Inspector is the production implementation.
type ContainerLister interface {
	ProjectContainers(ctx context.Context, project string) ([]model.ContainerInfo, error)
	Close() error
}

// Deps holds the collaborators the commands reach outside the process
// through. DefaultDeps wires the real ones.
type Deps struct {
	Runner     runner.Runner
	Containers ContainerLister
	Ports      port.Checker
	LookPath   runner.LookPathFunc

	// PluginDirs lists the docker CLI plugin directories searched when the
	// orchestrator is a docker subcommand such as "docker compose".
	PluginDirs func() []string

	// IsTerminal reports whether stdin and stdout are both terminals.
	IsTerminal func() bool

	// Environ returns the process environment as KEY=VALUE pairs. It is
	// layered over the secrets file when Compose variables are expanded.
	Environ func() []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultDeps returns Deps backed by os/exec, the Docker Engine API, the
// host network stack and the process's own stdio.
func DefaultDeps() *Deps {
	return &Deps{
		Runner:     runner.NewExecRunner(),
		Containers: docker.NewInspector(),
		Ports:      port.NewScanner(),
		LookPath:   exec.LookPath,
		PluginDirs: runner.PluginDirs,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		Environ: os.Environ,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// app is the state shared by every command of one invocation. The fields
// below flags are filled by preflight and read-only afterwards.
type app struct {
	deps  *Deps
	flags rootFlags

	// settingsRequired reports whether --settings was given explicitly.
	settingsRequired func() bool

	cfg        *config.Config
	descriptor *compose.Descriptor
	service    compose.Service
	project    string
	vars       map[string]string
	compose    *compose.Orchestrator
	mysql      *mysql.Client
}

func newApp(deps *Deps) *app {
	return &app{
		deps:             deps,
		settingsRequired: func() bool { return false },
	}
}

// preflight validates the startup preconditions in order: the secrets file
// and root credential, the required executables, then the Compose
// descriptor and its database service. Nothing is executed and the Docker
// daemon is not contacted until all of them pass.
func (a *app) preflight() error {
	fileSettings, err := config.LoadSettings(a.flags.settingsFile, a.settingsRequired())
	if err != nil {
		return err
	}
	settings := config.Defaults().Merge(fileSettings).Merge(a.flags.overrides)

	cfg, err := config.Load(settings)
	if err != nil {
		return err
	}
	a.verbosef("Loaded secrets from %s", settings.EnvFile)

	binary, baseArgs := cfg.Orchestrator()
	if err := a.requireExecutables(cfg.RuntimeBinary(), binary); err != nil {
		return err
	}
	if err := a.requirePlugin(binary, baseArgs); err != nil {
		return err
	}

	descriptor, err := compose.LoadDescriptor(cfg.ComposeFile())
	if err != nil {
		return err
	}
	service, err := descriptor.Service(cfg.Service())
	if err != nil {
		return err
	}

	vars := composeVars(cfg.Secrets(), a.environ())
	project, err := descriptor.ProjectName(cfg.ProjectName(), vars)
	if err != nil {
		return model.WrapCLIError(model.KindGeneral, "failed to determine the compose project name", err)
	}
	a.verbosef("Compose project %q, service %q (%s)", project, cfg.Service(), descriptor.Path)

	a.cfg = cfg
	a.descriptor = descriptor
	a.service = service
	a.project = project
	a.vars = vars
	a.compose = compose.NewOrchestrator(binary, baseArgs, cfg.ComposeFile(), project)
	a.mysql = mysql.NewClient(cfg.User())
	return nil
}

// requireExecutables checks that every named executable is on PATH.
func (a *app) requireExecutables(names ...string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		path, err := a.deps.LookPath(name)
		if err != nil {
			return model.WrapCLIError(model.KindMissingRequiredExecutable,
				fmt.Sprintf("required executable %q not found in PATH", name), err)
		}
		a.verbosef("Found %s at %s", name, path)
	}
	return nil
}

// requirePlugin checks that the CLI plugin behind a "docker <subcommand>"
// orchestrator is installed. The docker binary alone says nothing about
// whether "docker compose" works.
func (a *app) requirePlugin(binary string, baseArgs []string) error {
	if filepath.Base(binary) != "docker" || len(baseArgs) == 0 || strings.HasPrefix(baseArgs[0], "-") {
		return nil
	}
	if a.deps.PluginDirs == nil {
		return nil
	}

	name := runner.PluginName("docker", baseArgs[0])
	path, err := runner.FindPlugin(a.deps.PluginDirs(), name)
	if err != nil {
		return model.WrapCLIError(model.KindMissingRequiredExecutable,
			fmt.Sprintf("required executable %q not found (docker CLI plugin for %q)",
				name, "docker "+baseArgs[0]), err)
	}
	a.verbosef("Found %s at %s", name, path)
	return nil
}

func (a *app) environ() []string {
	if a.deps.Environ == nil {
		return nil
	}
	return a.deps.Environ()
}

// composeVars builds the variable set Compose itself would see: the secrets
// file overlaid by the process environment.
func composeVars(secrets map[string]string, environ []string) map[string]string {
	vars := make(map[string]string, len(secrets)+len(environ))
	for k, v := range secrets {
		vars[k] = v
	}
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

// verbosef prints a message to stderr only when --verbose is set.
func (a *app) verbosef(format string, args ...interface{}) {
	if a.flags.verbose {
		fmt.Fprintf(a.deps.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// state queries the Docker daemon for the project's containers.
func (a *app) state(ctx context.Context) (model.ProjectState, []model.ContainerInfo, error) {
	containers, err := a.deps.Containers.ProjectContainers(ctx, a.project)
	if err != nil {
		return "", nil, model.WrapCLIError(model.KindDockerUnavailable,
			"failed to query project containers", err)
	}
	state := model.StateOf(containers)
	a.verbosef("Project %q is %s (%d of %d container(s) running)",
		a.project, state, len(model.RunningContainers(containers)), len(containers))
	return state, containers, nil
}

// closeContainers releases the Docker client, if one was opened.
func (a *app) closeContainers() {
	if err := a.deps.Containers.Close(); err != nil {
		a.verbosef("closing docker client: %v", err)
	}
}

// stdio overrides the streams of a delegated command. Nil fields fall back
// to the invocation's own streams.
type stdio struct {
	in  io.Reader
	out io.Writer
}

// composeCommand builds the orchestrator invocation for args.
func (a *app) composeCommand(args []string, s stdio) runner.Command {
	cmd := runner.Command{
		Name:   a.compose.Binary,
		Args:   args,
		Stdin:  s.in,
		Stdout: s.out,
		Stderr: a.deps.Stderr,
	}
	if cmd.Stdin == nil {
		cmd.Stdin = a.deps.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = a.deps.Stdout
	}
	return cmd
}

// run echoes cmd in verbose mode and runs it.
func (a *app) run(ctx context.Context, cmd runner.Command) error {
	a.verbosef("+ %s", cmd)
	return a.deps.Runner.Run(ctx, cmd)
}

// runCompose runs the orchestrator with args.
func (a *app) runCompose(ctx context.Context, args []string, s stdio) error {
	return a.run(ctx, a.composeCommand(args, s))
}

// runMySQL runs a mysql or mysqldump command line inside the database
// container without a TTY. The root password is set as MYSQL_PWD in the
// orchestrator's environment and forwarded into the container by name, so
// it appears in no process arguments on the host.
func (a *app) runMySQL(ctx context.Context, argv []string, s stdio) error {
	opts := compose.ExecOptions{
		TTY:     false,
		Forward: []string{mysql.PasswordEnvVar},
	}
	cmd := a.composeCommand(a.compose.Exec(a.cfg.Service(), opts, argv...), s)
	cmd.Env = mysql.PasswordEnv(a.cfg.RootPassword())
	return a.run(ctx, cmd)
}
