// Package pkgs implements the profile maintenance commands: add, replace,
// update, resolve and profiles.
package pkgs

import (
	"context"

	"github.com/arthur-debert/rig/pkg/core"
	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/packages"
)

// ListResult is a list of package names produced by a pkgs command
type ListResult struct {
	Command  string   `json:"command"`
	Profile  string   `json:"profile,omitempty"`
	Packages []string `json:"packages"`
	// Persisted is true when the list was written to the tracked file
	Persisted bool `json:"persisted"`
}

// ResolveResult holds the effective install sets of a profile selection
type ResolveResult struct {
	Profiles []string `json:"profiles"`
	System   []string `json:"system"`
	Python   []string `json:"python"`
}

// ProfilesResult lists the existing profiles
type ProfilesResult struct {
	Root     string   `json:"root"`
	Profiles []string `json:"profiles"`
}

// AddOptions holds options for the add command
type AddOptions struct {
	Package  string
	Profiles []string
}

// Add tracks a package in every named profile
func Add(env *core.Env, opts AddOptions) (*ListResult, error) {
	logger := logging.GetLogger("commands.pkgs")
	logger.Info().Str("package", opts.Package).Strs("profiles", opts.Profiles).Msg("Adding package")

	if err := env.Store().AddPackage(opts.Package, opts.Profiles); err != nil {
		return nil, err
	}
	return &ListResult{Command: "add", Packages: []string{opts.Package}, Persisted: true}, nil
}

// ReplaceOptions holds options for the replace command
type ReplaceOptions struct {
	Profile string
	DryRun  bool
}

// Replace makes the installed snapshot the profile's tracked list. With
// DryRun the snapshot is only returned.
func Replace(ctx context.Context, env *core.Env, opts ReplaceOptions) (*ListResult, error) {
	r := env.Reconciler()
	result := &ListResult{Command: "replace", Profile: opts.Profile}

	var set packages.Set
	var err error
	if opts.DryRun {
		if err = r.Store().Validate(opts.Profile); err != nil {
			return nil, err
		}
		set, err = r.Installed(ctx)
	} else {
		set, err = r.Replace(ctx, opts.Profile)
		result.Persisted = err == nil
	}
	if err != nil {
		return nil, err
	}

	result.Packages = set.Sorted()
	return result, nil
}

// UpdateOptions holds options for the update command. DryRun and New are
// mutually exclusive.
type UpdateOptions struct {
	Profile string
	DryRun  bool
	New     bool
}

// Update grows the profile's tracked list with the installed snapshot.
// DryRun returns the merged list without writing; New returns only the
// installed packages not tracked yet.
func Update(ctx context.Context, env *core.Env, opts UpdateOptions) (*ListResult, error) {
	if opts.DryRun && opts.New {
		return nil, errors.New(errors.ErrInvalidInput, "--dry-run and --new are mutually exclusive")
	}

	r := env.Reconciler()
	result := &ListResult{Command: "update", Profile: opts.Profile}

	var set packages.Set
	var err error
	switch {
	case opts.DryRun:
		set, err = r.DiffAgainstInstalled(ctx, opts.Profile)
	case opts.New:
		result.Command = "new"
		set, err = r.NewPackages(ctx, opts.Profile)
	default:
		set, err = r.Update(ctx, opts.Profile)
		result.Persisted = err == nil
	}
	if err != nil {
		return nil, err
	}

	result.Packages = set.Sorted()
	return result, nil
}

// Resolve returns the effective install sets for profiles
func Resolve(env *core.Env, profiles []string) (*ResolveResult, error) {
	if len(profiles) == 0 {
		profiles = []string{env.Config.Packages.DefaultProfile}
	}
	system, python, err := env.Reconciler().ResolveProfilePackages(profiles)
	if err != nil {
		return nil, err
	}
	return &ResolveResult{
		Profiles: profiles,
		System:   system.Sorted(),
		Python:   python.Sorted(),
	}, nil
}

// Profiles lists the existing profiles
func Profiles(env *core.Env) (*ProfilesResult, error) {
	store := env.Store()
	names, err := store.Profiles()
	if err != nil {
		return nil, err
	}
	return &ProfilesResult{Root: store.Root(), Profiles: names}, nil
}
