// Package coretest builds in-memory core.Env instances for command tests.
package coretest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arthur-debert/rig/pkg/config"
	"github.com/arthur-debert/rig/pkg/confirm"
	"github.com/arthur-debert/rig/pkg/core"
	"github.com/arthur-debert/rig/pkg/git"
	"github.com/arthur-debert/rig/pkg/testutil"
	"github.com/stretchr/testify/require"
)

// Harness bundles an Env with the fakes behind it
type Harness struct {
	*testutil.Env
	Core *core.Env
	Out  *bytes.Buffer
}

// New creates an Env over a memory filesystem, a fake runner (git included)
// and a prompt answering from answers.
func New(t *testing.T, answers string) *Harness {
	t.Helper()
	env := testutil.NewEnv(t)

	cfg, err := config.Default(env.Root)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &Harness{
		Env: env,
		Out: out,
		Core: &core.Env{
			Root:   env.Root,
			Config: cfg,
			FS:     env.FS,
			Runner: env.Runner,
			Git:    git.NewShellClient(env.Runner),
			Prompt: confirm.New(strings.NewReader(answers), out),
			Out:    out,
		},
	}
}

// Manifest writes the manifest file at the configured location
func (h *Harness) Manifest(json string) {
	h.WriteFile(h.Core.Config.Paths.Manifest, json)
}

// Installed scripts the enumerator output
func (h *Harness) Installed(names ...string) {
	out := strings.Join(names, "\n")
	if len(names) > 0 {
		out += "\n"
	}
	h.Runner.On(strings.Join(h.Core.Config.Packages.Enumerator, " "), out, nil)
}
