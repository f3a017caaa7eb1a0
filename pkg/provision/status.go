package provision

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/filesystem"
	"github.com/arthur-debert/rig/pkg/manifest"
)

// StatusReport is the status of one declaration's working copy
type StatusReport struct {
	Declaration manifest.Declaration
	Status      RepoStatus
	Err         error
}

// UpdateResult is the result of one Update
type UpdateResult struct {
	Declaration manifest.Declaration
	Pulled      bool
	Branch      string
	Err         error
}

// Status reports whether the working copy at the declaration's location has
// uncommitted changes. The location must already hold a clone.
func (p *Provisioner) Status(ctx context.Context, d manifest.Declaration) (RepoStatus, error) {
	if err := p.requireWorkingCopy(d); err != nil {
		return Clean, err
	}
	dirty, err := p.git.IsDirty(ctx, d.Location)
	if err != nil {
		return Clean, err
	}
	if dirty {
		return Dirty, nil
	}
	return Clean, nil
}

// StatusAll reports every declaration, containing errors per entry
func (p *Provisioner) StatusAll(ctx context.Context, decls []manifest.Declaration) []StatusReport {
	reports := make([]StatusReport, 0, len(decls))
	for _, d := range decls {
		status, err := p.Status(ctx, d)
		if err != nil {
			p.logger.Warn().Err(err).Str("repo", d.Name).Msg("Status unavailable")
		}
		reports = append(reports, StatusReport{Declaration: d, Status: status, Err: err})
	}
	return reports
}

// Update asks, then pulls the current branch from origin. Declining is not
// an error.
func (p *Provisioner) Update(ctx context.Context, d manifest.Declaration) (UpdateResult, error) {
	res := UpdateResult{Declaration: d}
	if err := p.requireWorkingCopy(d); err != nil {
		return res, err
	}

	ok, err := p.prompt.Confirm(fmt.Sprintf("Pull %s at %s?", d.Name, d.Location))
	if err != nil {
		return res, err
	}
	if !ok {
		p.logger.Info().Str("repo", d.Name).Msg("Pull declined")
		return res, nil
	}

	branch, err := p.git.CurrentBranch(ctx, d.Location)
	if err != nil {
		return res, err
	}
	res.Branch = branch

	if err := p.git.Pull(ctx, d.Location, DefaultRemote, branch); err != nil {
		return res, err
	}
	res.Pulled = true
	p.logger.Info().Str("repo", d.Name).Str("branch", branch).Msg("Pulled")
	p.printf("Pulled %s (%s)\n", d.Name, branch)
	return res, nil
}

// UpdateAll updates the declarations in order with the same containment
// policy as ProvisionAll.
func (p *Provisioner) UpdateAll(ctx context.Context, decls []manifest.Declaration) ([]UpdateResult, error) {
	results := make([]UpdateResult, 0, len(decls))
	for _, d := range decls {
		res, err := p.Update(ctx, d)
		res.Err = err
		results = append(results, res)

		if err == nil {
			continue
		}
		if abortsBatch(ctx, err) {
			return results, err
		}
		p.logger.Error().Err(err).Str("repo", d.Name).Msg("Update failed")
		p.printf("%v\n", err)
	}
	return results, nil
}

func (p *Provisioner) requireWorkingCopy(d manifest.Declaration) error {
	isDir, err := filesystem.IsDir(p.fs, d.Location)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to access %s", d.Location)
	}
	if isDir {
		hasGit, err := filesystem.Exists(p.fs, filepath.Join(d.Location, ".git"))
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to access %s", d.Location)
		}
		if hasGit {
			return nil
		}
	}
	return errors.Newf(errors.ErrNotCloned, "%s has not been cloned to %s", d.Name, d.Location).
		WithDetail("repo", d.Name)
}
