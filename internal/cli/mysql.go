// mysql.go implements the mysql:import, mysql:dump and
// mysql:query commands.
//
// All three run the MySQL client tools inside the database container via
// "compose exec -T" as the root account. The password travels in the
// MYSQL_PWD environment variable of the exec, never on a command line.
// Dump files live in the dumps directory as <name>.sql.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dbdock/internal/model"
	"github.com/shinji-kodama/dbdock/internal/mysql"
)

// NewImportCommand creates the "mysql:import" cobra command.
func NewImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mysql:import <dump> <database>",
		Short: "Load a dump file into a database",
		Long: heredoc.Doc(`
			Create the database if it does not exist, then execute
			<dumps-dir>/<dump>.sql against it.

			Examples:
			  dbdock mysql:import seed shop
		`),

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd.Context(), args[0], args[1])
		},
	}
}

// NewDumpCommand creates the "mysql:dump" cobra command.
func NewDumpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mysql:dump <database> <output>",
		Short: "Write a dump of a database to a file",
		Long: heredoc.Doc(`
			Run mysqldump for the database and write its output to
			<dumps-dir>/<output>.sql, replacing any existing file.

			Examples:
			  dbdock mysql:dump shop backup-2024-05-01
		`),

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDump(cmd.Context(), args[0], args[1])
		},
	}
}

// NewQueryCommand creates the "mysql:query" cobra command. The remaining
// arguments are joined with single spaces into one statement.
func NewQueryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mysql:query <sql> [sql...]",
		Short: "Run a SQL statement",
		Long: heredoc.Doc(`
			Join the arguments with single spaces and run the result as one
			SQL statement through the mysql client. Quote the statement to keep the
			shell from expanding characters such as * or ;.

			Examples:
			  dbdock mysql:query "SHOW DATABASES"
			  dbdock mysql:query SELECT 1 + 1
		`),

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd.Context(), args)
		},
	}

	// "SELECT -1" must not be read as a flag.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// runImport creates db if needed and streams the dump file into it.
func (a *app) runImport(ctx context.Context, dump, db string) error {
	if err := mysql.ValidateDatabaseName(db); err != nil {
		return err
	}
	path, err := a.cfg.DumpPath(dump)
	if err != nil {
		return err
	}

	// Open before touching the server so a typo in the dump name does not
	// leave an empty database behind.
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.WrapCLIError(model.KindInvalidArgument,
				fmt.Sprintf("dump file not found: %s", path), err)
		}
		return model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to open dump file %s", path), err)
	}
	defer func() { _ = f.Close() }()

	a.verbosef("Creating database %s if it does not exist", mysql.QuoteIdentifier(db))
	if err := a.runMySQL(ctx, a.mysql.CreateDatabase(db), stdio{}); err != nil {
		return err
	}

	a.verbosef("Importing %s into %s", path, db)
	return a.runMySQL(ctx, a.mysql.Import(db), stdio{in: f})
}

// runDump writes a dump of db to the output file, truncating it first.
func (a *app) runDump(ctx context.Context, db, out string) error {
	if err := mysql.ValidateDatabaseName(db); err != nil {
		return err
	}
	path, err := a.cfg.DumpPath(out)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.cfg.Settings().DumpsDir, 0o755); err != nil {
		return model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to create dumps directory %s", a.cfg.Settings().DumpsDir), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to create dump file %s", path), err)
	}

	a.verbosef("Dumping %s to %s", db, path)
	runErr := a.runMySQL(ctx, a.mysql.Dump(db), stdio{out: f})
	if err := f.Close(); err != nil && runErr == nil {
		return model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to write dump file %s", path), err)
	}
	return runErr
}

// runQuery runs the joined statement through the mysql client.
func (a *app) runQuery(ctx context.Context, args []string) error {
	return a.runMySQL(ctx, a.mysql.Query(mysql.JoinStatement(args)), stdio{})
}
