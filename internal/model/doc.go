// Package model defines the domain types and value objects for the
// dbdock CLI.
//
// This package contains pure data structures with no external dependencies.
// Container information and the project state are transient representations
// reconstructed from the Docker Engine API on every invocation. Nothing is
// persisted by dbdock itself.
//
// The package also defines exit codes (ExitCode), the flat error taxonomy
// (ErrorKind) and a custom error type (CLIError) that carries both, so the
// CLI layer can translate any failure into a process exit status.
package model
