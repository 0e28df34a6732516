package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the executable, resolved through PATH.
	Name string

	// Args are the arguments after the executable name.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is added on top of the inherited process environment.
	Env map[string]string

	// Stdin, Stdout and Stderr default to the process's own streams
	// when nil.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for trace output with secret values
// redacted.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	parts = append(parts, Redact(c.Args)...)
	return strings.Join(parts, " ")
}

// Runner runs a Command to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// LookPathFunc resolves an executable name to a path, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd and blocks until it exits.
//
// A child that exits non-zero yields a silent CLIError of kind KindSubprocess
// whose Code is the child's exit status. A child that cannot be started
// yields a KindGeneral CLIError.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if len(cmd.Env) > 0 {
		c.Env = mergeEnv(os.Environ(), cmd.Env)
	}

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return model.NewSubprocessError(cmd.Name, exitErr.ExitCode(), err)
	}
	return model.WrapCLIError(model.KindGeneral,
		fmt.Sprintf("failed to run %s", cmd.Name), err)
}

// mergeEnv appends extra to base in key order. Later entries win when the
// child reads its environment, so extra overrides inherited values.
func mergeEnv(base []string, extra map[string]string) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(extra))
	env = append(env, base...)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// secretMarkers are substrings of KEY in a KEY=VALUE argument whose value
// must not be echoed.
var secretMarkers = []string{"PWD", "PASSWORD", "SECRET", "TOKEN"}

// Redact returns a copy of args in which the value of every KEY=VALUE
// argument with a secret-looking key is replaced by "***".
func Redact(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a
		key, _, ok := strings.Cut(a, "=")
		if !ok || strings.HasPrefix(key, "-") {
			continue
		}
		upper := strings.ToUpper(key)
		for _, m := range secretMarkers {
			if strings.Contains(upper, m) {
				out[i] = key + "=***"
				break
			}
		}
	}
	return out
}
