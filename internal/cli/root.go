// Package cli implements the cobra-based CLI commands for dbdock.
//
// Each group of subcommands (status/start/stop/restart, exec, mysql:*) is
// defined in its own file within this package. This file defines the root
// command, which owns the global flags, runs the startup preconditions for
// every invocation, and prints the usage listing when no known subcommand
// is given.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dbdock/internal/config"
	"github.com/shinji-kodama/dbdock/internal/model"
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// usageText is the Long description of the root command. Cobra prints it,
// followed by the generated command and flag listing, whenever dbdock is run
// without a known subcommand.
var usageText = heredoc.Doc(`
	dbdock manages a dockerized MySQL instance declared in a Docker Compose file.

	Commands:
	  mysql:import <dump> <db>   create <db> if absent, then load ./dumps/<dump>.sql into it
	  mysql:dump <db> <out>      write a dump of <db> to ./dumps/<out>.sql
	  mysql:query <sql...>       run a raw SQL statement
	  exec <cmd...>              run a command inside the database container
	  start                      start the containers
	  stop                       stop the containers
	  restart                    stop, then start the containers
	  status                     show the containers and their state

	The root password is read from MYSQL_ROOT_PASSWORD in the secrets file (.env).
`)

// rootFlags holds the values of the global flags. They are bound to cobra
// persistent flags on the root command so every subcommand sees them.
type rootFlags struct {
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables [verbose] trace lines on stderr, including every
	// delegated command line with secrets redacted.
	verbose bool

	// settingsFile is the JSONC settings file path.
	settingsFile string

	// overrides carries flag values layered on top of the settings file.
	overrides config.Settings
}

// NewRootCommand creates and configures the root cobra command with all
// subcommands registered. deps supplies the process, Docker and terminal
// collaborators; tests pass fakes.
func NewRootCommand(deps *Deps) *cobra.Command {
	a := newApp(deps)

	rootCmd := &cobra.Command{
		Use:   "dbdock <command> [args...]",
		Short: "Manage a dockerized MySQL instance",
		Long:  usageText,

		// Any argument list is accepted so that an unknown subcommand falls
		// through to RunE and prints the usage listing instead of failing.
		Args: cobra.ArbitraryArgs,

		// Likewise an unknown flag before any subcommand.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},

		// Preconditions run before every command, including the usage arm.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.preflight()
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				a.verbosef("unknown command %q", args[0])
			}
			return cmd.Help()
		},

		// Errors and usage are formatted by Run, not by cobra.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	// Shell completion would have to satisfy the preconditions too; it is
	// not offered.
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&a.flags.jsonOutput, "json", false, "Output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVar(&a.flags.settingsFile, "settings", config.DefaultSettingsFile, "Settings file (JSONC)")
	pf.StringVar(&a.flags.overrides.EnvFile, "env-file", "", "Secrets file (default \".env\")")
	pf.StringVarP(&a.flags.overrides.ComposeFile, "compose-file", "f", "", "Compose file (default \"docker-compose.yml\")")
	pf.StringVar(&a.flags.overrides.Service, "service", "", "Compose service running MySQL (default \"mysql\")")
	pf.StringVar(&a.flags.overrides.DumpsDir, "dumps-dir", "", "Directory for dump files (default \"dumps\")")
	pf.StringVar(&a.flags.overrides.ProjectName, "project", "", "Compose project name (default: derived from the compose file)")
	pf.StringVar(&a.flags.overrides.Orchestrator, "orchestrator", "", "Compose command line, \"docker compose\" or \"docker-compose\"")

	// The settings file is only mandatory when named explicitly.
	a.settingsRequired = func() bool { return pf.Changed("settings") }

	rootCmd.AddCommand(NewStatusCommand(a))
	rootCmd.AddCommand(NewStartCommand(a))
	rootCmd.AddCommand(NewStopCommand(a))
	rootCmd.AddCommand(NewRestartCommand(a))
	rootCmd.AddCommand(NewExecCommand(a))
	rootCmd.AddCommand(NewImportCommand(a))
	rootCmd.AddCommand(NewDumpCommand(a))
	rootCmd.AddCommand(NewQueryCommand(a))

	return rootCmd
}

// Run executes rootCmd and translates the outcome into a process exit code.
//
// CLIError values carry their own exit code. Silent ones (relayed subprocess
// failures) print nothing, since the child already wrote its own diagnostics.
// Every other error prints one line to stderr and yields exit code 1.
func Run(rootCmd *cobra.Command) int {
	err := rootCmd.Execute()
	if err == nil {
		return int(model.ExitSuccess)
	}

	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("json")
	stderr := rootCmd.ErrOrStderr()

	var cliErr *model.CLIError
	switch {
	case errors.As(err, &cliErr):
		if !cliErr.Silent {
			printError(stderr, jsonOutput, cliErr.Kind, cliErr.Message, cliErr.Err)
		}
	default:
		// Cobra's own errors (bad flags, wrong argument count) land here.
		printError(stderr, jsonOutput, model.KindOf(err), err.Error(), nil)
	}
	return int(model.ExitCodeOf(err))
}

// Execute runs rootCmd and exits the process with the resulting code.
// This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	os.Exit(Run(rootCmd))
}

// printError outputs an error message in the appropriate format
// (JSON or text). Errors always go to stderr because stdout is reserved for
// successful command output.
func printError(w io.Writer, jsonOutput bool, kind model.ErrorKind, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"kind":    kind.String(),
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}
