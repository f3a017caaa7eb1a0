package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	env := testutil.NewEnv(t)
	env.WriteFile(env.Path("setup.json"), `[
  {"name": "dot", "repo": "https://example/dot.git", "location": "~/dot", "enabled": true, "script": null},
  {"name": "vim", "repo": "https://example/vim.git", "location": "/opt/vim", "enabled": true, "script": "install.sh"},
  {"name": "old", "repo": "https://example/old.git", "location": "~/old", "enabled": false},
  {"name": "rel", "repo": "https://example/rel.git", "location": "vendor/rel", "enabled": true, "script": "  "}
]`)

	decls, err := Load(env.FS, env.Path("setup.json"), env.Root)
	require.NoError(t, err)
	require.Len(t, decls, 4)

	dot := decls[0]
	assert.Equal(t, "dot", dot.Name)
	assert.Equal(t, filepath.Join(home, "dot"), dot.Location)
	assert.True(t, dot.Enabled)
	assert.False(t, dot.HasScript())
	assert.Equal(t, "", dot.ScriptPath())

	vim := decls[1]
	require.True(t, vim.HasScript())
	assert.Equal(t, "/opt/vim/install.sh", vim.ScriptPath())

	assert.False(t, decls[2].Enabled)
	assert.Equal(t, "/rig/vendor/rel", decls[3].Location)
	assert.False(t, decls[3].HasScript())

	enabled := Enabled(decls)
	require.Len(t, enabled, 3)
	assert.Equal(t, []string{"dot", "vim", "rel"}, []string{enabled[0].Name, enabled[1].Name, enabled[2].Name})
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
		missing string
	}{
		{
			name:    "missing_repo",
			json:    `[{"name": "dot", "location": "~/dot", "enabled": true}]`,
			wantErr: true,
			missing: "repo",
		},
		{
			name:    "empty_location",
			json:    `[{"name": "dot", "repo": "u", "location": "", "enabled": true}]`,
			wantErr: true,
			missing: "location",
		},
		{
			name:    "missing_everything",
			json:    `[{"enabled": true}]`,
			wantErr: true,
			missing: "name, repo, location",
		},
		{
			name: "disabled_entries_are_not_validated",
			json: `[{"name": "half", "enabled": false}]`,
		},
		{
			name: "missing_enabled_means_disabled",
			json: `[{"name": "half"}]`,
		},
		{
			name: "empty_manifest",
			json: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls, err := Parse([]byte(tt.json), "/base")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))
				assert.Contains(t, err.Error(), tt.missing)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, Enabled(decls))
		})
	}
}

func TestParseInvalidEntryFailsWholeManifest(t *testing.T) {
	_, err := Parse([]byte(`[
  {"name": "ok", "repo": "u", "location": "/ok", "enabled": true},
  {"name": "bad", "location": "/bad", "enabled": true}
]`), "/base")
	require.Error(t, err)
	assert.Equal(t, 1, errors.GetErrorDetails(err)["index"])
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{`{"name": "dot"}`, `[{"name": 3}]`, `not json`} {
		_, err := Parse([]byte(input), "/base")
		assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid), input)
	}
}

func TestLoadMissingFile(t *testing.T) {
	env := testutil.NewEnv(t)
	_, err := Load(env.FS, env.Path("nope.json"), env.Root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestLoad))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidAddsPath(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteFile(env.Path("setup.json"), `[{"enabled": true}]`)

	_, err := Load(env.FS, env.Path("setup.json"), env.Root)
	require.Error(t, err)
	assert.Equal(t, env.Path("setup.json"), errors.GetErrorDetails(err)["path"])
}
