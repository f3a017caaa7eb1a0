// Package runner executes the external programs rig drives: git, the
// package managers, the installed-package enumerator and post-clone scripts.
//
// Every call blocks until the process exits. There are no timeouts; the
// context is the only way to stop a hung process.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/rs/zerolog"
)

// Command describes one process invocation
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// String renders the command line for logs and messages
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner abstracts process execution so callers can be tested without
// spawning real programs.
type Runner interface {
	// Output runs the command capturing stdout. A non-zero exit yields an
	// *ExitError carrying stderr.
	Output(ctx context.Context, cmd Command) ([]byte, error)
	// Run runs the command attached to the runner's stdio streams.
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a process that started but exited non-zero
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status carried by err, 0 for nil and -1 when
// the process never ran.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// ExecRunner runs commands on the local host
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	logger zerolog.Logger
}

// NewExec creates a runner attached to the process' own stdio
func NewExec() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logging.GetLogger("runner"),
	}
}

// Output implements Runner
func (r *ExecRunner) Output(ctx context.Context, c Command) ([]byte, error) {
	logging.LogCommand(r.logger, c.Name, c.Args)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stderr.Len() > 0 {
		r.logger.Trace().Str("command", c.Name).Str("stderr", stderr.String()).Msg("Command stderr")
	}
	if err != nil {
		return stdout.Bytes(), r.wrap(c, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	logging.LogCommand(r.logger, c.Name, c.Args)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return r.wrap(c, err, "")
	}
	return nil
}

func (r *ExecRunner) wrap(c Command, err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Debug().
			Str("command", c.String()).
			Int("exitCode", exitErr.ExitCode()).
			Msg("Command exited non-zero")
		return &ExitError{
			Command: c.String(),
			Code:    exitErr.ExitCode(),
			Stderr:  stderr,
			Err:     err,
		}
	}
	return fmt.Errorf("failed to run %s: %w", c.Name, err)
}
