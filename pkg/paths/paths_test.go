package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/dot", filepath.Join(home, "dot")},
		{"nested", "~/src/github/vim", filepath.Join(home, "src", "github", "vim")},
		{"other user untouched", "~bob/dot", "~bob/dot"},
		{"absolute untouched", "/opt/dot", "/opt/dot"},
		{"relative untouched", "dot", "dot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}

func TestNewWithExplicitRoot(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvConfigDir, filepath.Join(root, "cfg"))

	p, err := New(root)
	require.NoError(t, err)

	assert.Equal(t, root, p.Root())
	assert.False(t, p.UsedFallback())
	assert.Equal(t, filepath.Join(root, "cfg"), p.ConfigDir())
	assert.Equal(t, filepath.Join(root, "cfg", ConfigFileName), p.UserConfigFile())
	assert.Equal(t, filepath.Join(root, ConfigFileName), p.RootConfigFile())
}

func TestNewFromEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvRoot, root)

	p, err := New("")
	require.NoError(t, err)
	assert.Equal(t, root, p.Root())
	assert.False(t, p.UsedFallback())
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()

	p, err := New(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "pkgs"), p.Resolve("pkgs"))
	assert.Equal(t, filepath.Join(home, "dot"), p.Resolve("~/dot"))
	assert.Equal(t, "/etc/rig", p.Resolve("/etc/rig"))
	assert.Equal(t, "", p.Resolve(""))
}
