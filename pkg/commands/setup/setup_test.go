package setup

import (
	"context"
	"testing"

	"github.com/arthur-debert/rig/pkg/core/coretest"
	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/provision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeRepos = `[
  {"name": "a", "repo": "https://example/a.git", "location": "/home/u/a", "enabled": true, "script": null},
  {"name": "b", "repo": "https://unreachable/b.git", "location": "/home/u/b", "enabled": true, "script": null},
  {"name": "off", "repo": "https://example/off.git", "location": "/home/u/off", "enabled": false},
  {"name": "c", "repo": "https://example/c.git", "location": "/home/u/c", "enabled": true, "script": "bootstrap"}
]`

func TestRunOrdersPackagesBeforeRepositories(t *testing.T) {
	h := coretest.New(t, "")
	h.Profile("default").Tracked("vim").Python("black")
	h.Manifest(`[{"name": "dot", "repo": "https://example/dot.git", "location": "/home/u/dot", "enabled": true}]`)
	h.Runner.Fail("dpkg -s vim", 1, "").Fail("pip3 show black", 1, "")

	res, err := Run(context.Background(), h.Core, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pip3 show black",
		"pip3 install --user black",
		"dpkg -s vim",
		"sudo apt-get install -y vim",
		"git clone --recursive https://example/dot.git /home/u/dot",
		"git -C /home/u/dot submodule status",
	}, h.Runner.Lines())
	assert.Equal(t, []string{"default"}, res.Profiles)
	assert.Equal(t, []string{"black"}, res.Python.Installed)
	assert.Equal(t, []string{"vim"}, res.System.Installed)
	assert.Equal(t, 1, res.Count(provision.Done))
}

func TestRunContainsRepositoryFailures(t *testing.T) {
	h := coretest.New(t, "")
	h.Profile("default")
	h.Manifest(threeRepos)
	h.Runner.Fail("git clone --recursive https://unreachable/b.git /home/u/b", 128, "Could not resolve host")

	res, err := Run(context.Background(), h.Core, Options{})
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 3)
	assert.Equal(t, provision.Done, res.Outcomes[0].State)
	assert.Equal(t, provision.Failed, res.Outcomes[1].State)
	assert.Equal(t, provision.Done, res.Outcomes[2].State)
	assert.True(t, res.Outcomes[2].ScriptRan)
	assert.Equal(t, 2, res.Count(provision.Done))
	assert.False(t, h.Runner.Ran("git clone --recursive https://example/off.git /home/u/off"))
	assert.True(t, h.Runner.Ran("/home/u/c/bootstrap"))
}

func TestRunPackageFailuresDoNotStopRepositories(t *testing.T) {
	h := coretest.New(t, "")
	h.Profile("default").Tracked("vim")
	h.Manifest(`[{"name": "dot", "repo": "u", "location": "/home/u/dot", "enabled": true}]`)
	h.Runner.Fail("dpkg -s vim", 1, "").Fail("sudo apt-get install -y vim", 100, "E: Unable to locate package")

	res, err := Run(context.Background(), h.Core, Options{})
	require.NoError(t, err)
	require.Len(t, res.InstallErrors, 1)
	assert.True(t, errors.IsErrorCode(res.InstallErrors[0], errors.ErrInstall))
	assert.Equal(t, provision.Done, res.Outcomes[0].State)
}

func TestRunFatalErrors(t *testing.T) {
	t.Run("invalid_manifest_before_side_effects", func(t *testing.T) {
		h := coretest.New(t, "")
		h.Profile("default").Tracked("vim")
		h.Manifest(`[{"name": "dot", "location": "~/dot", "enabled": true}]`)

		_, err := Run(context.Background(), h.Core, Options{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))
		assert.Empty(t, h.Runner.Calls())
	})

	t.Run("unknown_profile", func(t *testing.T) {
		h := coretest.New(t, "")
		h.Manifest(`[]`)

		_, err := Run(context.Background(), h.Core, Options{Profiles: []string{"ghost"}})
		assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
	})

	t.Run("missing_manifest", func(t *testing.T) {
		h := coretest.New(t, "")
		h.Profile("default")

		_, err := Run(context.Background(), h.Core, Options{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrManifestLoad))
	})
}

func TestRunMaintenance(t *testing.T) {
	h := coretest.New(t, "")
	h.Profile("default")
	h.Manifest(`[]`)
	h.WriteFile(h.Path("scripts", "b_clear.py"), "#!/usr/bin/env python3\n")
	h.WriteFile(h.Path("scripts", "a_make_local.py"), "#!/usr/bin/env python3\n")
	h.WriteFile(h.Path("scripts", ".hidden"), "")
	h.Mkdir(h.Path("scripts", "lib"))
	h.Runner.Fail("/rig/scripts/a_make_local.py", 1, "")

	res, err := Run(context.Background(), h.Core, Options{RunMaintenance: true})
	require.NoError(t, err)

	require.Len(t, res.Maintenance, 2)
	assert.Equal(t, "a_make_local.py", res.Maintenance[0].Script)
	assert.True(t, errors.IsErrorCode(res.Maintenance[0].Err, errors.ErrScript))
	assert.Equal(t, "b_clear.py", res.Maintenance[1].Script)
	assert.NoError(t, res.Maintenance[1].Err)

	calls := h.Runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/rig", calls[0].Dir)
}

func TestRunWithoutMaintenanceSkipsScripts(t *testing.T) {
	h := coretest.New(t, "")
	h.Profile("default")
	h.Manifest(`[]`)
	h.WriteFile(h.Path("scripts", "a.sh"), "")

	res, err := Run(context.Background(), h.Core, Options{})
	require.NoError(t, err)
	assert.Nil(t, res.Maintenance)
	assert.Empty(t, h.Runner.Calls())
}
