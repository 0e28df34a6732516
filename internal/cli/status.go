// status.go implements the "dbdock status" command.
//
// The status command queries Docker for the containers carrying the
// project's Compose label and prints one name/state line per container,
// or a JSON object with --json. When none of them is running it fails with
// "containers are not running" on stderr and exit code 1.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the containers and their state",
		Long: heredoc.Doc(`
			Show every container of the Compose project with its state.

			Exits with code 1 if no container of the project is running.

			Examples:
			  dbdock status
			  dbdock status --json
		`),

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeContainers()
			return a.runStatus(cmd)
		},
	}
}

// runStatus is the main logic function for the status command.
func (a *app) runStatus(cmd *cobra.Command) error {
	state, containers, err := a.state(cmd.Context())
	if err != nil {
		return err
	}

	if state != model.StateRunning {
		return model.NewCLIError(model.KindContainersNotRunning, "containers are not running")
	}

	if a.flags.jsonOutput {
		return printStatusJSON(cmd.OutOrStdout(), a.project, a.descriptor.Path, state, containers)
	}
	colorize := a.deps.IsTerminal != nil && a.deps.IsTerminal()
	printStatusText(cmd.OutOrStdout(), containers, colorize)
	return nil
}

// printStatusJSON outputs the project state and its containers as JSON.
func printStatusJSON(w io.Writer, project, composeFile string, state model.ProjectState, containers []model.ContainerInfo) error {
	type resultJSON struct {
		Project     string                `json:"project"`
		ComposeFile string                `json:"composeFile"`
		State       string                `json:"state"`
		Containers  []model.ContainerInfo `json:"containers"`
	}

	result := resultJSON{
		Project:     project,
		ComposeFile: composeFile,
		State:       state.String(),
		Containers:  containers,
	}
	// Use an empty slice instead of nil so the output shows [] not null.
	if result.Containers == nil {
		result.Containers = []model.ContainerInfo{}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printStatusText prints "<name> <state>" per container, with the names
// padded to a common width. States are colored only when colorize is set.
func printStatusText(w io.Writer, containers []model.ContainerInfo, colorize bool) {
	fmtRunning := color.New(color.FgGreen)
	fmtOther := color.New(color.FgYellow)
	if !colorize {
		fmtRunning.DisableColor()
		fmtOther.DisableColor()
	}

	width := 0
	for _, c := range containers {
		if len(c.ContainerName) > width {
			width = len(c.ContainerName)
		}
	}

	for _, c := range containers {
		state := fmtOther
		if c.IsRunning() {
			state = fmtRunning
		}
		fmt.Fprintf(w, "%-*s %s\n", width, c.ContainerName, state.Sprint(c.State))
	}
}
