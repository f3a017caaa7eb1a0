// Package filesystem implements types.FS on top of afero: the OS filesystem
// for the CLI and MemMapFs for tests.
package filesystem
