// Package commands provides the high-level command implementations for rig.
//
// Each command is implemented in its own subdirectory:
//   - pkgs/   - profile maintenance (add, replace, update, resolve, profiles)
//   - setup/  - provision packages, repositories and maintenance scripts
//   - status/ - working copy status and interactive pull
//
// This file re-exports the command entry points so the CLI depends on one
// package.
package commands

import (
	"context"

	"github.com/arthur-debert/rig/pkg/commands/pkgs"
	"github.com/arthur-debert/rig/pkg/commands/setup"
	"github.com/arthur-debert/rig/pkg/commands/status"
	"github.com/arthur-debert/rig/pkg/core"
)

// AddPackage tracks a package in one or more profiles.
type AddPackageOptions = pkgs.AddOptions

func AddPackage(env *core.Env, opts AddPackageOptions) (*pkgs.ListResult, error) {
	return pkgs.Add(env, opts)
}

// ReplacePackages replaces a profile's tracked list with the installed snapshot.
type ReplacePackagesOptions = pkgs.ReplaceOptions

func ReplacePackages(ctx context.Context, env *core.Env, opts ReplacePackagesOptions) (*pkgs.ListResult, error) {
	return pkgs.Replace(ctx, env, opts)
}

// UpdatePackages grows a profile's tracked list with the installed snapshot.
type UpdatePackagesOptions = pkgs.UpdateOptions

func UpdatePackages(ctx context.Context, env *core.Env, opts UpdatePackagesOptions) (*pkgs.ListResult, error) {
	return pkgs.Update(ctx, env, opts)
}

// ResolvePackages computes the install sets of a profile selection.
func ResolvePackages(env *core.Env, profiles []string) (*pkgs.ResolveResult, error) {
	return pkgs.Resolve(env, profiles)
}

// ListProfiles lists the profile folders.
func ListProfiles(env *core.Env) (*pkgs.ProfilesResult, error) {
	return pkgs.Profiles(env)
}

// Provision installs packages, clones repositories and runs maintenance.
type ProvisionOptions = setup.Options

func Provision(ctx context.Context, env *core.Env, opts ProvisionOptions) (*setup.Result, error) {
	return setup.Run(ctx, env, opts)
}

// Status reports on, or pulls, every provisioned repository.
type StatusOptions = status.Options

func Status(ctx context.Context, env *core.Env, opts StatusOptions) (*status.Result, error) {
	return status.Run(ctx, env, opts)
}
