package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/rig/pkg/runner"
)

// Result is a scripted response for one command line
type Result struct {
	Stdout string
	Err    error
}

// Call records one invocation seen by FakeRunner
type Call struct {
	runner.Command
	// Attached is true for Run, false for Output.
	Attached bool
}

// FakeRunner implements runner.Runner without executing anything.
//
// Responses are keyed by the full command line (runner.Command.String()).
// Several responses for the same line are consumed in order; the last one
// sticks. Unscripted commands succeed with empty output unless Handler is set.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string][]Result

	// Handler answers commands with no scripted response
	Handler func(cmd runner.Command) ([]byte, error)
}

// NewFakeRunner creates an empty fake runner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string][]Result)}
}

// On scripts the stdout and error returned for a command line
func (f *FakeRunner) On(line, stdout string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = append(f.responses[line], Result{Stdout: stdout, Err: err})
	return f
}

// Fail scripts a non-zero exit for a command line
func (f *FakeRunner) Fail(line string, code int, stderr string) *FakeRunner {
	return f.On(line, "", ExitError(line, code, stderr))
}

// ExitError builds the error ExecRunner returns for a non-zero exit
func ExitError(line string, code int, stderr string) error {
	return &runner.ExitError{Command: line, Code: code, Stderr: stderr}
}

// Output implements runner.Runner
func (f *FakeRunner) Output(_ context.Context, cmd runner.Command) ([]byte, error) {
	return f.respond(cmd, false)
}

// Run implements runner.Runner
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) error {
	_, err := f.respond(cmd, true)
	return err
}

func (f *FakeRunner) respond(cmd runner.Command, attached bool) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Command: cmd, Attached: attached})

	line := cmd.String()
	queue, ok := f.responses[line]
	if ok && len(queue) > 0 {
		res := queue[0]
		if len(queue) > 1 {
			f.responses[line] = queue[1:]
		}
		f.mu.Unlock()
		return []byte(res.Stdout), res.Err
	}
	handler := f.Handler
	f.mu.Unlock()

	if handler != nil {
		return handler(cmd)
	}
	return nil, nil
}

// Calls returns every recorded invocation in order
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns the recorded command lines in order
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Ran reports whether line was invoked at least once
func (f *FakeRunner) Ran(line string) bool {
	for _, l := range f.Lines() {
		if l == line {
			return true
		}
	}
	return false
}
