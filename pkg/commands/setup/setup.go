// Package setup implements `rig provision`: install the packages of the
// selected profiles, then clone every enabled repository, then optionally
// run the maintenance scripts.
package setup

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/rig/pkg/core"
	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/filesystem"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/packages"
	"github.com/arthur-debert/rig/pkg/provision"
	"github.com/arthur-debert/rig/pkg/runner"
)

// Options holds options for the provision command
type Options struct {
	// Profiles to install; empty means the default profile
	Profiles []string
	// RunMaintenance runs the scripts directory after provisioning
	RunMaintenance bool
}

// ScriptResult is the result of one maintenance script
type ScriptResult struct {
	Script string
	Err    error
}

// Result collects everything a provision run did
type Result struct {
	Profiles []string
	Python   *packages.InstallReport
	System   *packages.InstallReport
	// InstallErrors are package failures; they never stop provisioning
	InstallErrors []error
	Outcomes      []provision.Outcome
	Maintenance   []ScriptResult
}

// Count returns how many repositories ended in state
func (r *Result) Count(state provision.State) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == state {
			n++
		}
	}
	return n
}

// Run provisions the machine. Profile and manifest errors are fatal and
// happen before any repository is touched; package and repository failures
// are recorded in the result.
func Run(ctx context.Context, env *core.Env, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.setup")

	profiles := opts.Profiles
	if len(profiles) == 0 {
		profiles = []string{env.Config.Packages.DefaultProfile}
	}
	result := &Result{Profiles: profiles}

	system, python, err := env.Reconciler().ResolveProfilePackages(profiles)
	if err != nil {
		return result, err
	}

	// Load the manifest up front so a validation error stops the run
	// before anything is installed.
	decls, err := env.Declarations()
	if err != nil {
		return result, err
	}

	installer := env.Installer()
	result.Python, err = installer.Ensure(ctx, packages.Python, python)
	if err != nil {
		if ctx.Err() != nil {
			return result, err
		}
		logger.Error().Err(err).Msg("Python package installation incomplete")
		result.InstallErrors = append(result.InstallErrors, err)
	}

	result.System, err = installer.Ensure(ctx, packages.System, system)
	if err != nil {
		if ctx.Err() != nil {
			return result, err
		}
		logger.Error().Err(err).Msg("System package installation incomplete")
		result.InstallErrors = append(result.InstallErrors, err)
	}

	result.Outcomes, err = env.Provisioner().ProvisionAll(ctx, decls)
	if err != nil {
		return result, err
	}

	if opts.RunMaintenance {
		result.Maintenance, err = runMaintenance(ctx, env)
		if err != nil {
			return result, err
		}
	}

	logger.Info().
		Int("repositories", len(result.Outcomes)).
		Int("done", result.Count(provision.Done)).
		Int("failed", result.Count(provision.Failed)).
		Int("skipped", result.Count(provision.Skipped)).
		Msg("Provisioning finished")
	return result, nil
}

// runMaintenance executes every regular file of the scripts directory in
// lexical order from the root. A missing directory runs nothing.
func runMaintenance(ctx context.Context, env *core.Env) ([]ScriptResult, error) {
	logger := logging.GetLogger("commands.setup")
	dir := env.Config.Paths.Scripts

	isDir, err := filesystem.IsDir(env.FS, dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to access scripts directory %s", dir)
	}
	if !isDir {
		logger.Debug().Str("dir", dir).Msg("No scripts directory")
		return nil, nil
	}

	entries, err := env.FS.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
	}

	var scripts []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			scripts = append(scripts, e.Name())
		}
	}
	sort.Strings(scripts)

	results := make([]ScriptResult, 0, len(scripts))
	for _, name := range scripts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		path := filepath.Join(dir, name)
		err := env.Runner.Run(ctx, runner.Command{Name: path, Dir: env.Root})
		if err != nil {
			err = errors.Wrapf(err, errors.ErrScript, "maintenance script %s failed", name)
			logger.Warn().Err(err).Str("script", name).Msg("Maintenance script failed")
		}
		results = append(results, ScriptResult{Script: name, Err: err})
	}
	return results, nil
}
