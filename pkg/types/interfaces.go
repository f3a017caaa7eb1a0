package types

import (
	"io/fs"
)

// FS defines the filesystem operations rig performs on profile lists and
// repository locations. Git and package managers touch the disk on their own.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	RemoveAll(path string) error
}
