// Package runner executes the external processes dbdock delegates to.
//
// One synchronous call per delegated action: the child inherits or is given
// explicit stdio streams, runs to completion, and a non-zero exit status is
// reported as a silent model.CLIError carrying the child's exit code so the
// CLI can relay it unchanged.
//
// The Runner interface exists so the CLI layer can be tested with a
// recording fake instead of real docker invocations.
package runner
