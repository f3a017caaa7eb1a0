// Package core wires rig's components together for one invocation.
//
// An Env holds the resolved root, the effective configuration and the
// collaborators every command shares: the filesystem, the process runner,
// the prompt and the output stream. Commands ask the Env for the component
// they need instead of constructing collaborators themselves, so tests can
// swap any of them.
package core

import (
	"io"
	"os"

	"github.com/arthur-debert/rig/pkg/config"
	"github.com/arthur-debert/rig/pkg/confirm"
	"github.com/arthur-debert/rig/pkg/filesystem"
	"github.com/arthur-debert/rig/pkg/git"
	"github.com/arthur-debert/rig/pkg/manifest"
	"github.com/arthur-debert/rig/pkg/packages"
	"github.com/arthur-debert/rig/pkg/paths"
	"github.com/arthur-debert/rig/pkg/provision"
	"github.com/arthur-debert/rig/pkg/runner"
	"github.com/arthur-debert/rig/pkg/types"
)

// Env is the per-invocation runtime
type Env struct {
	Root   string
	Config *config.Config
	FS     types.FS
	Runner runner.Runner
	Git    git.Client
	Prompt confirm.Confirmer
	Out    io.Writer
}

// Options locate the root and configuration and bind the streams
type Options struct {
	Root       string
	ConfigFile string
	Overrides  map[string]interface{}

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewEnv resolves paths and configuration and builds the real collaborators
func NewEnv(opts Options) (*Env, error) {
	p, err := paths.New(opts.Root)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.LoadOptions{
		Paths:      p,
		ConfigFile: opts.ConfigFile,
		Overrides:  opts.Overrides,
	})
	if err != nil {
		return nil, err
	}

	in, out, errOut := opts.In, opts.Out, opts.ErrOut
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	r := runner.NewExec()
	r.Stdin, r.Stdout, r.Stderr = in, out, errOut

	return &Env{
		Root:   p.Root(),
		Config: cfg,
		FS:     filesystem.NewOS(),
		Runner: r,
		Git:    git.NewShellClient(r),
		Prompt: confirm.New(in, out),
		Out:    out,
	}, nil
}

// Store returns the profile store
func (e *Env) Store() *packages.Store {
	return packages.NewStore(e.FS, e.Config.Paths.Profiles)
}

// Reconciler returns the package reconciler. The enumerator runs in the root.
func (e *Env) Reconciler() *packages.Reconciler {
	lister := packages.NewEnumerator(e.Runner, e.Config.Packages.Enumerator, e.Root)
	return packages.NewReconciler(e.Store(), lister, e.Config.Packages.DefaultProfile)
}

// Installer returns the package installer
func (e *Env) Installer() *packages.Installer {
	return packages.NewInstaller(e.Runner, e.Config.Packages)
}

// Provisioner returns the repository provisioner
func (e *Env) Provisioner() *provision.Provisioner {
	return provision.New(provision.Deps{
		Git:    e.Git,
		FS:     e.FS,
		Prompt: e.Prompt,
		Runner: e.Runner,
		Out:    e.Out,
	}, provision.Options{
		SubmoduleBranch:     e.Config.Provision.SubmoduleBranch,
		IgnoreScriptFailure: e.Config.Provision.IgnoreScriptFailure,
	})
}

// Declarations loads the manifest and returns its enabled entries
func (e *Env) Declarations() ([]manifest.Declaration, error) {
	decls, err := manifest.Load(e.FS, e.Config.Paths.Manifest, e.Root)
	if err != nil {
		return nil, err
	}
	return manifest.Enabled(decls), nil
}
