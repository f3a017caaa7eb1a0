package packages

import (
	"testing"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*testutil.Env, *Store) {
	env := testutil.NewEnv(t)
	return env, NewStore(env.FS, env.ProfilesDir())
}

func TestReadList(t *testing.T) {
	env, store := newTestStore(t)
	env.Profile("work").List(TrackedList, "vim", "", "git  ", "vim", "", "")

	got, err := store.ReadList("work", TrackedList)
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "vim"}, got.Sorted())
}

func TestReadListMissingIsEmpty(t *testing.T) {
	env, store := newTestStore(t)
	env.Profile("work")
	withEmpty := env.Profile("home").Ignore()

	missing, err := store.ReadList("work", IgnoreList)
	require.NoError(t, err)
	empty, err := store.ReadList("home", IgnoreList)
	require.NoError(t, err)

	assert.Equal(t, 0, missing.Len())
	assert.True(t, missing.Equal(empty))
	assert.Equal(t, "", env.ReadFile(withEmpty.Dir()+"/ignore"))
}

func TestReadListMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid_utf8", "vim\n\xff\xfe\n"},
		{"nul_bytes", "vim\x00git\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, store := newTestStore(t)
			env.Profile("work")
			env.WriteFile(env.Path("pkgs", "work", TrackedList), tt.content)

			_, err := store.ReadList("work", TrackedList)
			assert.True(t, errors.IsErrorCode(err, errors.ErrProfileMalformed))
		})
	}
}

func TestProfiles(t *testing.T) {
	env, store := newTestStore(t)

	names, err := store.Profiles()
	require.NoError(t, err)
	assert.Empty(t, names)

	env.Profile("work")
	env.Profile("home")
	env.Mkdir(env.Path("pkgs", ".git"))
	env.WriteFile(env.Path("pkgs", "README"), "notes")

	names, err = store.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "work"}, names)
}

func TestValidate(t *testing.T) {
	env, store := newTestStore(t)
	env.Profile("work")

	assert.NoError(t, store.Validate("work"))
	assert.True(t, errors.IsErrorCode(store.Validate("work", "nope"), errors.ErrProfileNotFound))
	assert.True(t, errors.IsErrorCode(store.Validate("../etc"), errors.ErrInvalidInput))
	assert.True(t, errors.IsErrorCode(store.Validate(""), errors.ErrInvalidInput))
}

func TestPersist(t *testing.T) {
	env, store := newTestStore(t)
	env.Profile("work").Tracked("old")

	require.NoError(t, store.Persist("work", NewSet("vim", "git", "curl")))
	assert.Equal(t, "curl\ngit\nvim\n", env.ReadFile(env.Path("pkgs", "work", TrackedList)))

	back, err := store.ReadList("work", TrackedList)
	require.NoError(t, err)
	assert.True(t, back.Equal(NewSet("vim", "git", "curl")))

	require.NoError(t, store.Persist("work", NewSet()))
	assert.Equal(t, "", env.ReadFile(env.Path("pkgs", "work", TrackedList)))

	err = store.Persist("missing", NewSet("vim"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestAddPackage(t *testing.T) {
	t.Run("adds_to_each_profile", func(t *testing.T) {
		env, store := newTestStore(t)
		env.Profile("work").Tracked("vim")
		env.Profile("home")

		require.NoError(t, store.AddPackage("ripgrep", []string{"work", "home"}))
		assert.Equal(t, "ripgrep\nvim\n", env.ReadFile(env.Path("pkgs", "work", TrackedList)))
		assert.Equal(t, "ripgrep\n", env.ReadFile(env.Path("pkgs", "home", TrackedList)))

		// Adding again is a no-op
		require.NoError(t, store.AddPackage("ripgrep", []string{"work"}))
		assert.Equal(t, "ripgrep\nvim\n", env.ReadFile(env.Path("pkgs", "work", TrackedList)))
	})

	t.Run("unknown_profile_writes_nothing", func(t *testing.T) {
		env, store := newTestStore(t)
		env.Profile("work").Tracked("vim")

		err := store.AddPackage("ripgrep", []string{"work", "nope"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
		assert.Equal(t, "vim\n", env.ReadFile(env.Path("pkgs", "work", TrackedList)))
	})

	t.Run("invalid_input", func(t *testing.T) {
		env, store := newTestStore(t)
		env.Profile("work")

		assert.True(t, errors.IsErrorCode(store.AddPackage("two words", []string{"work"}), errors.ErrInvalidInput))
		assert.True(t, errors.IsErrorCode(store.AddPackage("vim", nil), errors.ErrInvalidInput))
	})
}
