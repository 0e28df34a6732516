// start.go implements the "dbdock start" and "dbdock restart"
// commands.
//
// The start command brings up every service of the Compose project in
// detached mode. It refuses to run when the project already has a running
// container. Before delegating to Compose it verifies that every host port
// the database service publishes is free, so a port clash is reported up
// front instead of as a half-started project.
package cli

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dbdock/internal/model"
	"github.com/shinji-kodama/dbdock/internal/port"
)

// NewStartCommand creates the "start" cobra command.
func NewStartCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the containers",
		Long: heredoc.Doc(`
			Start every service of the Compose project in detached mode.

			Fails if a container of the project is already running, or if a host
			port the database service publishes is in use by another process.

			Examples:
			  dbdock start
			  dbdock start --compose-file compose.dev.yml
		`),

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeContainers()
			return a.runStart(cmd.Context())
		},
	}
}

// NewRestartCommand creates the "restart" cobra command.
func NewRestartCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Stop, then start the containers",
		Long: heredoc.Doc(`
			Stop the Compose project if it is running, then start it again.

			The two steps run sequentially. If start fails after a successful stop,
			the project is left stopped.
		`),

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeContainers()
			if err := a.runStop(cmd.Context()); err != nil {
				return err
			}
			return a.runStart(cmd.Context())
		},
	}
}

// runStart is the main logic function for the start command.
func (a *app) runStart(ctx context.Context) error {
	state, _, err := a.state(ctx)
	if err != nil {
		return err
	}
	if state == model.StateRunning {
		return model.NewCLIError(model.KindContainersAlreadyRunning,
			fmt.Sprintf("containers of project %q are already running", a.project))
	}

	// Stopped containers still hold no host port, so anything bound now
	// belongs to another process.
	hostPorts := a.service.HostPorts(a.vars)
	a.verbosef("Checking host ports %v of service %q", hostPorts, a.cfg.Service())
	if err := port.CheckAvailable(a.deps.Ports, hostPorts); err != nil {
		return err
	}

	a.verbosef("Starting Compose project %q...", a.project)
	return a.runCompose(ctx, a.compose.Up(), stdio{})
}
