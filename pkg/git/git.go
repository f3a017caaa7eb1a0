// Package git drives the git command line for cloning and inspecting the
// working copies rig provisions.
package git

import (
	"context"
	"strings"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/runner"
	"github.com/rs/zerolog"
)

// Client provides the git operations the provisioner needs
type Client interface {
	// Clone clones url into dest, initializing submodules recursively
	Clone(ctx context.Context, url, dest string) error
	// Submodules lists the top-level submodule paths of the working copy
	Submodules(ctx context.Context, dir string) ([]string, error)
	// Checkout switches the working copy at dir to branch
	Checkout(ctx context.Context, dir, branch string) error
	// IsDirty reports whether the working copy has uncommitted changes to
	// tracked files. Untracked files do not count.
	IsDirty(ctx context.Context, dir string) (bool, error)
	// CurrentBranch returns the branch checked out at dir
	CurrentBranch(ctx context.Context, dir string) (string, error)
	// Pull fetches and merges branch from remote into dir
	Pull(ctx context.Context, dir, remote, branch string) error
}

// ShellClient implements Client by shelling out to the git command
type ShellClient struct {
	runner runner.Runner
	binary string
	logger zerolog.Logger
}

// NewShellClient creates a git client running commands through r
func NewShellClient(r runner.Runner) *ShellClient {
	return &ShellClient{
		runner: r,
		binary: "git",
		logger: logging.GetLogger("git"),
	}
}

// Clone implements Client
func (c *ShellClient) Clone(ctx context.Context, url, dest string) error {
	if _, err := c.git(ctx, "clone", "--recursive", url, dest); err != nil {
		return errors.Wrapf(err, errors.ErrVCS, "git clone %s failed", url).
			WithDetail("repo", url).
			WithDetail("location", dest)
	}
	return nil
}

// Submodules implements Client
func (c *ShellClient) Submodules(ctx context.Context, dir string) ([]string, error) {
	out, err := c.git(ctx, "-C", dir, "submodule", "status")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrVCS, "failed to list submodules of %s", dir)
	}
	return parseSubmoduleStatus(string(out)), nil
}

// parseSubmoduleStatus extracts paths from `git submodule status` lines:
//
//	[ +-U]<sha> <path>[ (<describe>)]
func parseSubmoduleStatus(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if len(strings.TrimSpace(line)) < 2 {
			continue
		}
		_, rest, ok := strings.Cut(line[1:], " ")
		if !ok {
			continue
		}
		if i := strings.LastIndex(rest, " ("); i >= 0 && strings.HasSuffix(rest, ")") {
			rest = rest[:i]
		}
		if rest = strings.TrimSpace(rest); rest != "" {
			paths = append(paths, rest)
		}
	}
	return paths
}

// Checkout implements Client
func (c *ShellClient) Checkout(ctx context.Context, dir, branch string) error {
	if _, err := c.git(ctx, "-C", dir, "checkout", branch); err != nil {
		return errors.Wrapf(err, errors.ErrVCS, "failed to check out %s in %s", branch, dir)
	}
	return nil
}

// IsDirty implements Client
func (c *ShellClient) IsDirty(ctx context.Context, dir string) (bool, error) {
	out, err := c.git(ctx, "-C", dir, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrVCS, "failed to get status of %s", dir)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// CurrentBranch implements Client
func (c *ShellClient) CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := c.git(ctx, "-C", dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrVCS, "failed to resolve current branch of %s", dir)
	}
	branch := strings.TrimSpace(string(out))
	if branch == "" || branch == "HEAD" {
		return "", errors.Newf(errors.ErrVCS, "%s is not on a branch", dir)
	}
	return branch, nil
}

// Pull implements Client
func (c *ShellClient) Pull(ctx context.Context, dir, remote, branch string) error {
	if _, err := c.git(ctx, "-C", dir, "pull", remote, branch); err != nil {
		return errors.Wrapf(err, errors.ErrVCS, "git pull %s %s failed in %s", remote, branch, dir)
	}
	return nil
}

func (c *ShellClient) git(ctx context.Context, args ...string) ([]byte, error) {
	out, err := c.runner.Output(ctx, runner.Command{Name: c.binary, Args: args})
	if err != nil {
		c.logger.Debug().Err(err).Strs("args", args).Msg("git command failed")
	}
	return out, err
}
