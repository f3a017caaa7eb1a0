package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/paths"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPaths(t *testing.T) *paths.Paths {
	t.Helper()
	root := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(root, "xdg-config"))
	p, err := paths.New(root)
	require.NoError(t, err)
	return p
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	p := setupPaths(t)

	cfg, err := Load(LoadOptions{Paths: p})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(p.Root(), "pkgs"), cfg.Paths.Profiles)
	assert.Equal(t, filepath.Join(p.Root(), "setup.json"), cfg.Paths.Manifest)
	assert.Equal(t, filepath.Join(p.Root(), "scripts"), cfg.Paths.Scripts)
	assert.Equal(t, "default", cfg.Packages.DefaultProfile)
	assert.Equal(t, []string{"bash", "current_pkg_list"}, cfg.Packages.Enumerator)
	assert.Equal(t, []string{"pip3", "install", "--user"}, cfg.Packages.Python.Install)
	assert.Equal(t, []string{"dpkg", "-s"}, cfg.Packages.System.Check)
	assert.Equal(t, "master", cfg.Provision.SubmoduleBranch)
	assert.True(t, cfg.Provision.IgnoreScriptFailure)
}

func TestLoadLayering(t *testing.T) {
	t.Run("root_file_overrides_user_file", func(t *testing.T) {
		p := setupPaths(t)
		writeFile(t, p.UserConfigFile(), `
[packages]
default_profile = "laptop"

[provision]
submodule_branch = "develop"
`)
		writeFile(t, p.RootConfigFile(), `
[provision]
submodule_branch = "main"
`)

		cfg, err := Load(LoadOptions{Paths: p})
		require.NoError(t, err)
		assert.Equal(t, "laptop", cfg.Packages.DefaultProfile)
		assert.Equal(t, "main", cfg.Provision.SubmoduleBranch)
	})

	t.Run("env_overrides_files", func(t *testing.T) {
		p := setupPaths(t)
		writeFile(t, p.RootConfigFile(), `
[provision]
ignore_script_failure = true
`)
		t.Setenv("RIG_PROVISION__IGNORE_SCRIPT_FAILURE", "false")
		t.Setenv("RIG_PACKAGES__ENUMERATOR", "pacman,-Qq")

		cfg, err := Load(LoadOptions{Paths: p})
		require.NoError(t, err)
		assert.False(t, cfg.Provision.IgnoreScriptFailure)
		assert.Equal(t, []string{"pacman", "-Qq"}, cfg.Packages.Enumerator)
	})

	t.Run("overrides_win", func(t *testing.T) {
		p := setupPaths(t)
		t.Setenv("RIG_PATHS__MANIFEST", "env.json")

		cfg, err := Load(LoadOptions{
			Paths:     p,
			Overrides: map[string]interface{}{"paths.manifest": "~/repos.json"},
		})
		require.NoError(t, err)
		assert.Equal(t, paths.ExpandHome("~/repos.json"), cfg.Paths.Manifest)
	})

	t.Run("explicit_config_file", func(t *testing.T) {
		p := setupPaths(t)
		explicit := filepath.Join(t.TempDir(), "other.toml")
		writeFile(t, explicit, `
[paths]
profiles = "/srv/profiles"
`)
		writeFile(t, p.RootConfigFile(), `
[paths]
profiles = "ignored"
`)

		cfg, err := Load(LoadOptions{Paths: p, ConfigFile: explicit})
		require.NoError(t, err)
		assert.Equal(t, "/srv/profiles", cfg.Paths.Profiles)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing_explicit_file", func(t *testing.T) {
		p := setupPaths(t)
		_, err := Load(LoadOptions{Paths: p, ConfigFile: filepath.Join(p.Root(), "nope.toml")})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed_toml", func(t *testing.T) {
		p := setupPaths(t)
		writeFile(t, p.RootConfigFile(), "[provision\nsubmodule_branch = ")
		_, err := Load(LoadOptions{Paths: p})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("empty_install_command", func(t *testing.T) {
		p := setupPaths(t)
		writeFile(t, p.RootConfigFile(), `
[packages.python]
install = []
`)
		_, err := Load(LoadOptions{Paths: p})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})

	t.Run("nil_paths", func(t *testing.T) {
		_, err := Load(LoadOptions{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	})
}

func TestRender(t *testing.T) {
	p := setupPaths(t)
	cfg, err := Load(LoadOptions{Paths: p})
	require.NoError(t, err)

	out, err := Render(cfg)
	require.NoError(t, err)

	var back Config
	require.NoError(t, toml.Unmarshal(out, &back))
	assert.Equal(t, *cfg, back)
	assert.Contains(t, string(out), "submodule_branch = 'master'")
}

func TestDefaultsIsCopy(t *testing.T) {
	d := Defaults()
	require.NotEmpty(t, d)
	d[0] = 'X'
	assert.NotEqual(t, byte('X'), Defaults()[0])
}

func TestDefaultIgnoresLayers(t *testing.T) {
	p := setupPaths(t)
	writeFile(t, p.RootConfigFile(), `
[provision]
submodule_branch = "main"
`)
	t.Setenv("RIG_PACKAGES__DEFAULT_PROFILE", "laptop")

	cfg, err := Default(p.Root())
	require.NoError(t, err)
	assert.Equal(t, "master", cfg.Provision.SubmoduleBranch)
	assert.Equal(t, "default", cfg.Packages.DefaultProfile)
	assert.Equal(t, filepath.Join(p.Root(), "setup.json"), cfg.Paths.Manifest)
	assert.NoError(t, cfg.Validate())
}
