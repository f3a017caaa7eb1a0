// Package provision clones declared repositories and keeps them current.
//
// Each enabled declaration goes through one pass of a small state machine:
//
//	PendingOverwriteCheck -> Skipped | Cleared -> Cloned
//	  -> SubmodulesResolved | NoSubmodules -> ScriptRun | NoScript -> Done
//
// Any step may end in Failed. Batch operations contain failures per
// repository so one bad entry never blocks the rest; only a prompt that can
// no longer be answered stops a batch.
package provision

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/arthur-debert/rig/pkg/confirm"
	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/filesystem"
	"github.com/arthur-debert/rig/pkg/git"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/manifest"
	"github.com/arthur-debert/rig/pkg/runner"
	"github.com/arthur-debert/rig/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultRemote is the remote Update pulls from
const DefaultRemote = "origin"

// Options tune the workflow
type Options struct {
	// SubmoduleBranch is checked out in every submodule after cloning
	SubmoduleBranch string
	// IgnoreScriptFailure keeps a failed post-clone script from failing
	// the repository
	IgnoreScriptFailure bool
}

// DefaultOptions returns the stock workflow settings
func DefaultOptions() Options {
	return Options{
		SubmoduleBranch:     "master",
		IgnoreScriptFailure: true,
	}
}

// Deps are the collaborators a Provisioner drives
type Deps struct {
	Git    git.Client
	FS     types.FS
	Prompt confirm.Confirmer
	Runner runner.Runner
	// Out receives the operator-facing progress lines
	Out io.Writer
}

// Provisioner runs the clone, status and update workflows
type Provisioner struct {
	git    git.Client
	fs     types.FS
	prompt confirm.Confirmer
	runner runner.Runner
	out    io.Writer
	opts   Options
	logger zerolog.Logger
}

// New creates a provisioner
func New(deps Deps, opts Options) *Provisioner {
	if opts.SubmoduleBranch == "" {
		opts.SubmoduleBranch = DefaultOptions().SubmoduleBranch
	}
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	return &Provisioner{
		git:    deps.Git,
		fs:     deps.FS,
		prompt: deps.Prompt,
		runner: deps.Runner,
		out:    out,
		opts:   opts,
		logger: logging.GetLogger("provision"),
	}
}

// Outcome records how one declaration went
type Outcome struct {
	Declaration manifest.Declaration
	// State is the terminal state reached
	State State
	// Trail lists every state visited, in order
	Trail     []State
	ScriptRan bool
	// ScriptErr is a script failure tolerated by IgnoreScriptFailure
	ScriptErr error
	Err       error
}

func (o *Outcome) enter(s State) {
	o.State = s
	o.Trail = append(o.Trail, s)
}

func (o *Outcome) fail(err error) Outcome {
	o.enter(Failed)
	o.Err = err
	return *o
}

// Provision runs the clone workflow for one declaration. Errors are carried
// in the Outcome with State Failed.
func (p *Provisioner) Provision(ctx context.Context, d manifest.Declaration) Outcome {
	o := &Outcome{Declaration: d}
	logger := p.logger.With().Str("repo", d.Name).Str("location", d.Location).Logger()

	if !d.Enabled {
		o.enter(Disabled)
		logger.Debug().Msg("Declaration disabled, skipping")
		return *o
	}

	o.enter(PendingOverwriteCheck)
	ok, err := p.okayToWrite(d)
	if err != nil {
		return o.fail(err)
	}
	if !ok {
		o.enter(Skipped)
		logger.Info().Msg("Overwrite declined")
		p.printf("Skipping %s\n", d.Name)
		return *o
	}

	if err := p.fs.RemoveAll(d.Location); err != nil {
		return o.fail(errors.Wrapf(err, errors.ErrFileAccess, "failed to clear %s", d.Location))
	}
	o.enter(Cleared)

	if err := ctx.Err(); err != nil {
		return o.fail(err)
	}

	logger.Info().Str("url", d.Repo).Msg("Cloning repository")
	if err := p.git.Clone(ctx, d.Repo, d.Location); err != nil {
		return o.fail(err)
	}
	o.enter(Cloned)

	submodules, err := p.git.Submodules(ctx, d.Location)
	if err != nil {
		return o.fail(err)
	}
	if len(submodules) == 0 {
		o.enter(NoSubmodules)
	} else {
		for _, sub := range submodules {
			dir := filepath.Join(d.Location, sub)
			if err := p.git.Checkout(ctx, dir, p.opts.SubmoduleBranch); err != nil {
				return o.fail(err)
			}
			logger.Debug().Str("submodule", sub).Str("branch", p.opts.SubmoduleBranch).Msg("Submodule checked out")
		}
		o.enter(SubmodulesResolved)
	}

	if d.HasScript() {
		p.printf("Executing script %s\n", *d.Script)
		err := p.runner.Run(ctx, runner.Command{Name: d.ScriptPath(), Dir: d.Location})
		o.ScriptRan = true
		if err != nil {
			scriptErr := errors.Wrapf(err, errors.ErrScript, "script %s failed", *d.Script).
				WithDetail("exitCode", runner.ExitCode(err))
			if !p.opts.IgnoreScriptFailure {
				return o.fail(scriptErr)
			}
			o.ScriptErr = scriptErr
			logger.Warn().Err(err).Str("script", *d.Script).Msg("Post-clone script failed, continuing")
		}
		o.enter(ScriptRun)
	} else {
		o.enter(NoScript)
	}

	o.enter(Done)
	logger.Info().Msg("Repository provisioned")
	p.printf("Success! Cloned %s to %s\n", d.Name, d.Location)
	return *o
}

// okayToWrite asks before replacing an existing directory. A location that
// exists but is not a directory is never removed.
func (p *Provisioner) okayToWrite(d manifest.Declaration) (bool, error) {
	exists, err := filesystem.Exists(p.fs, d.Location)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to access %s", d.Location)
	}
	if !exists {
		return true, nil
	}

	isDir, err := filesystem.IsDir(p.fs, d.Location)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to access %s", d.Location)
	}
	if !isDir {
		return false, errors.Newf(errors.ErrFileAccess, "%s exists and is not a directory", d.Location)
	}

	return p.prompt.Confirm(fmt.Sprintf("Overwrite %s?", d.Location))
}

// ProvisionAll provisions the declarations in order. Per-repository failures
// are reported in the outcomes and do not stop the batch. A prompt failure
// or a cancelled context stops it and is returned with the outcomes so far.
func (p *Provisioner) ProvisionAll(ctx context.Context, decls []manifest.Declaration) ([]Outcome, error) {
	done := logging.LogOperationStart(p.logger, "provision repositories")
	defer done()

	outcomes := make([]Outcome, 0, len(decls))
	for _, d := range decls {
		o := p.Provision(ctx, d)
		outcomes = append(outcomes, o)

		if o.State != Failed {
			continue
		}
		if abortsBatch(ctx, o.Err) {
			return outcomes, o.Err
		}
		p.logger.Error().Err(o.Err).Str("repo", d.Name).Msg("Provisioning failed")
		p.printf("%v\n", o.Err)
	}
	return outcomes, nil
}

func abortsBatch(ctx context.Context, err error) bool {
	return errors.IsErrorCode(err, errors.ErrPrompt) || ctx.Err() != nil
}

func (p *Provisioner) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}
