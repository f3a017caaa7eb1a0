package filesystem

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/rig/pkg/types"
	"github.com/spf13/afero"
)

// backed adapts an afero.Fs to types.FS
type backed struct {
	afero.Fs
}

// NewOS returns the real filesystem
func NewOS() types.FS {
	return backed{afero.NewOsFs()}
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() types.FS {
	return backed{afero.NewMemMapFs()}
}

// Wrap adapts any afero filesystem, e.g. a read-only or base-path view
func Wrap(fsys afero.Fs) types.FS {
	return backed{fsys}
}

// ReadFile refuses directories on every backend; MemMapFs would return an
// empty slice.
func (b backed) ReadFile(name string) ([]byte, error) {
	info, err := b.Fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(b.Fs, name)
}

func (b backed) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(b.Fs, name, data, perm)
}

// ReadDir lists name sorted by file name
func (b backed) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(b.Fs, name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}

// IsDir reports whether path is an existing directory. Only not-exist
// errors are swallowed.
func IsDir(fsys types.FS, path string) (bool, error) {
	info, err := fsys.Stat(path)
	switch {
	case err == nil:
		return info.IsDir(), nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

// Exists reports whether anything is at path
func Exists(fsys types.FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}
