package cli

import (
	"context"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dbdock/internal/compose"
	"github.com/shinji-kodama/dbdock/internal/model"
)

// NewExecCommand creates the "exec" cobra command. Everything after "exec"
// is handed to the container untouched, flags included.
func NewExecCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <cmd> [args...]",
		Short: "Run a command inside the database container",
		Long: heredoc.Doc(`
			Run a command inside the database service container with the
			terminal attached. A TTY is allocated only when stdin and stdout are both
			terminals, so piping into or out of the command works.

			Examples:
			  dbdock exec bash
			  dbdock exec ls -la /var/lib/mysql
		`),

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeContainers()
			return a.runExec(cmd.Context(), args)
		},
	}

	// Stop flag parsing at the first positional argument so that
	// "exec ls -la" reaches ls.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// runExec is the main logic function for the exec command.
func (a *app) runExec(ctx context.Context, args []string) error {
	state, _, err := a.state(ctx)
	if err != nil {
		return err
	}
	if state != model.StateRunning {
		return model.NewCLIError(model.KindContainersNotRunning, "containers are not running")
	}

	opts := compose.ExecOptions{TTY: a.deps.IsTerminal != nil && a.deps.IsTerminal()}
	return a.runCompose(ctx, a.compose.Exec(a.cfg.Service(), opts, args...), stdio{})
}
