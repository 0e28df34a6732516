// Package mysql builds the command lines for the MySQL client tools that run
// inside the database container. Nothing here talks to a server: the
// commands are handed to the orchestrator's exec and the client binaries do
// the work.
package mysql

import (
	"fmt"
	"strings"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// PasswordEnvVar is read by mysql and mysqldump as the connection password.
// Using it keeps the password out of the in-container process arguments.
const PasswordEnvVar = "MYSQL_PWD"

// maxIdentifierLength is MySQL's limit for database names.
const maxIdentifierLength = 64

// Client builds mysql and mysqldump invocations for one account.
type Client struct {
	// User is the MySQL account name.
	User string
}

// NewClient creates a Client that connects as user.
func NewClient(user string) *Client {
	return &Client{User: user}
}

func (c *Client) userFlag() string {
	return "--user=" + c.User
}

// CreateDatabase returns the command that creates db unless it exists.
func (c *Client) CreateDatabase(db string) []string {
	return []string{"mysql", c.userFlag(), "-e",
		"CREATE DATABASE IF NOT EXISTS " + QuoteIdentifier(db)}
}

// Import returns the command that executes the SQL script on stdin
// against db.
func (c *Client) Import(db string) []string {
	return []string{"mysql", c.userFlag(), "--database=" + db}
}

// Dump returns the command that writes a dump of db to stdout.
func (c *Client) Dump(db string) []string {
	return []string{"mysqldump", c.userFlag(), "--", db}
}

// Query returns the command that executes statement with no default
// database selected.
func (c *Client) Query(statement string) []string {
	return []string{"mysql", c.userFlag(), "-e", statement}
}

// PasswordEnv returns the environment that carries password to the client.
func PasswordEnv(password string) map[string]string {
	return map[string]string{PasswordEnvVar: password}
}

// JoinStatement concatenates the words of a statement given as separate
// command-line arguments, separated by single spaces.
func JoinStatement(args []string) string {
	return strings.Join(args, " ")
}

// QuoteIdentifier quotes name as a MySQL identifier, doubling any backtick.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// ValidateDatabaseName rejects names MySQL would refuse or that the client
// tools would read as an option.
func ValidateDatabaseName(name string) error {
	switch {
	case name == "":
		return model.NewCLIError(model.KindInvalidArgument, "database name must not be empty")
	case strings.HasPrefix(name, "-"):
		return model.NewCLIError(model.KindInvalidArgument,
			fmt.Sprintf("invalid database name %q: must not start with '-'", name))
	case len(name) > maxIdentifierLength:
		return model.NewCLIError(model.KindInvalidArgument,
			fmt.Sprintf("invalid database name %q: longer than %d characters", name, maxIdentifierLength))
	case strings.ContainsRune(name, 0):
		return model.NewCLIError(model.KindInvalidArgument,
			fmt.Sprintf("invalid database name %q: contains NUL", name))
	}
	return nil
}
