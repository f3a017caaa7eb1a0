package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/rig/pkg/filesystem"
	"github.com/arthur-debert/rig/pkg/types"
	"github.com/stretchr/testify/require"
)

// DefaultRoot is the rig root used by in-memory environments
const DefaultRoot = "/rig"

// Env is an isolated in-memory test environment
type Env struct {
	FS     types.FS
	Root   string
	Runner *FakeRunner

	t *testing.T
}

// NewEnv creates a memory-backed environment rooted at DefaultRoot
func NewEnv(t *testing.T) *Env {
	t.Helper()
	env := &Env{
		FS:     filesystem.NewMemory(),
		Root:   DefaultRoot,
		Runner: NewFakeRunner(),
		t:      t,
	}
	require.NoError(t, env.FS.MkdirAll(env.Root, 0755))
	return env
}

// Path joins elem onto the root
func (e *Env) Path(elem ...string) string {
	return filepath.Join(append([]string{e.Root}, elem...)...)
}

// ProfilesDir is where profile folders live in the environment
func (e *Env) ProfilesDir() string {
	return e.Path("pkgs")
}

// WriteFile creates path (and its parents) with content
func (e *Env) WriteFile(path, content string) {
	e.t.Helper()
	require.NoError(e.t, e.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, e.FS.WriteFile(path, []byte(content), 0644))
}

// ReadFile returns the content at path, failing the test if unreadable
func (e *Env) ReadFile(path string) string {
	e.t.Helper()
	data, err := e.FS.ReadFile(path)
	require.NoError(e.t, err)
	return string(data)
}

// Mkdir creates a directory and its parents
func (e *Env) Mkdir(path string) {
	e.t.Helper()
	require.NoError(e.t, e.FS.MkdirAll(path, 0755))
}

// Profile creates an empty profile folder and returns a builder for its lists
func (e *Env) Profile(name string) *ProfileBuilder {
	e.t.Helper()
	dir := filepath.Join(e.ProfilesDir(), name)
	e.Mkdir(dir)
	return &ProfileBuilder{env: e, dir: dir}
}

// ProfileBuilder writes list files into one profile folder
type ProfileBuilder struct {
	env *Env
	dir string
}

// List writes a list file with one name per line
func (b *ProfileBuilder) List(list string, names ...string) *ProfileBuilder {
	content := strings.Join(names, "\n")
	if len(names) > 0 {
		content += "\n"
	}
	b.env.WriteFile(filepath.Join(b.dir, list), content)
	return b
}

// Tracked writes the tracked list
func (b *ProfileBuilder) Tracked(names ...string) *ProfileBuilder {
	return b.List("tracked", names...)
}

// Ignore writes the ignore list
func (b *ProfileBuilder) Ignore(names ...string) *ProfileBuilder {
	return b.List("ignore", names...)
}

// Python writes the python_tracked list
func (b *ProfileBuilder) Python(names ...string) *ProfileBuilder {
	return b.List("python_tracked", names...)
}

// Dir returns the profile folder
func (b *ProfileBuilder) Dir() string {
	return b.dir
}
