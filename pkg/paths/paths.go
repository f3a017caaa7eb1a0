// Package paths provides centralized path handling for rig.
// It resolves the rig root (the directory holding the repository manifest,
// package profiles and maintenance scripts), locates the user configuration
// under the XDG config directory, and expands home-relative paths.
package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/rig/pkg/errors"
)

// Environment variable names
const (
	// EnvRoot is the primary environment variable for the rig root
	EnvRoot = "RIG_ROOT"

	// EnvConfigDir overrides the XDG config directory for rig
	EnvConfigDir = "RIG_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name used under XDG base directories
	AppDirName = "rig"

	// ConfigFileName is the name of the rig configuration file, looked up
	// in the XDG config directory and in the rig root
	ConfigFileName = "rig.toml"
)

// Paths holds the resolved locations rig works with.
type Paths struct {
	root         string
	configDir    string
	usedFallback bool
}

// New creates a Paths instance for the given root.
// If root is empty, it will be determined from RIG_ROOT, the enclosing git
// repository, or the current directory, in that order.
func New(root string) (*Paths, error) {
	p := &Paths{}

	if root == "" {
		found, usedFallback, err := findRoot()
		if err != nil {
			return nil, err
		}
		p.root = found
		p.usedFallback = usedFallback
	} else {
		p.root = ExpandHome(root)
	}

	absRoot, err := filepath.Abs(p.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for root %s", p.root)
	}
	p.root = absRoot

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = ExpandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	return p, nil
}

// findRoot determines the rig root using the following priority:
// 1. RIG_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
func findRoot() (string, bool, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return ExpandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// ExpandHome expands a leading ~ or ~/ to the user's home directory.
// Other forms (including ~otheruser) are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// Root returns the rig root directory
func (p *Paths) Root() string {
	return p.root
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *Paths) UsedFallback() bool {
	return p.usedFallback
}

// ConfigDir returns the XDG config directory for rig
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// UserConfigFile returns the per-user configuration file path
func (p *Paths) UserConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// RootConfigFile returns the configuration file path inside the rig root
func (p *Paths) RootConfigFile() string {
	return filepath.Join(p.root, ConfigFileName)
}

// Resolve expands ~ and anchors relative paths at the rig root.
func (p *Paths) Resolve(path string) string {
	path = ExpandHome(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, path)
}
