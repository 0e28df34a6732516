// stop.go implements the "dbdock stop" command.
//
// The stop command runs "compose down" for the project when at least one
// of its containers is running. Named volumes are left in place, so the
// database contents survive. Stopping a project that is not running is a
// no-op and exits 0.
package cli

import (
	"context"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// NewStopCommand creates the "stop" cobra command.
func NewStopCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the containers",
		Long: heredoc.Doc(`
			Stop and remove the containers of the Compose project.

			Data in named volumes is preserved. Does nothing if no container of the
			project is running.

			Examples:
			  dbdock stop
		`),

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeContainers()
			return a.runStop(cmd.Context())
		},
	}
}

// runStop is the main logic function for the stop command.
func (a *app) runStop(ctx context.Context) error {
	state, _, err := a.state(ctx)
	if err != nil {
		return err
	}
	if state != model.StateRunning {
		a.verbosef("Project %q is not running; nothing to stop", a.project)
		return nil
	}

	a.verbosef("Stopping Compose project %q...", a.project)
	return a.runCompose(ctx, a.compose.Down(), stdio{})
}
