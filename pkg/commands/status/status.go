// Package status implements `rig status`: report whether each provisioned
// working copy is clean, or offer to pull each one.
package status

import (
	"context"

	"github.com/arthur-debert/rig/pkg/core"
	"github.com/arthur-debert/rig/pkg/logging"
)

// Options holds options for the status command
type Options struct {
	// Pull switches from reporting to interactive pulling
	Pull bool
}

// Row is one repository line of the report
type Row struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	// Status is Clean, Dirty or empty when Error is set
	Status string `json:"status,omitempty"`
	Pulled bool   `json:"pulled,omitempty"`
	Branch string `json:"branch,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Result is the status report
type Result struct {
	Pull bool  `json:"pull"`
	Rows []Row `json:"repositories"`
}

// Failed reports whether any row carries an error
func (r *Result) Failed() bool {
	for _, row := range r.Rows {
		if row.Error != "" {
			return true
		}
	}
	return false
}

// Run reports on or pulls every enabled repository in manifest order
func Run(ctx context.Context, env *core.Env, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.status")

	decls, err := env.Declarations()
	if err != nil {
		return nil, err
	}
	prov := env.Provisioner()
	result := &Result{Pull: opts.Pull, Rows: make([]Row, 0, len(decls))}

	if opts.Pull {
		updates, err := prov.UpdateAll(ctx, decls)
		for _, u := range updates {
			row := Row{Name: u.Declaration.Name, Location: u.Declaration.Location, Pulled: u.Pulled, Branch: u.Branch}
			if u.Err != nil {
				row.Error = u.Err.Error()
			}
			result.Rows = append(result.Rows, row)
		}
		return result, err
	}

	for _, report := range prov.StatusAll(ctx, decls) {
		row := Row{Name: report.Declaration.Name, Location: report.Declaration.Location}
		if report.Err != nil {
			row.Error = report.Err.Error()
		} else {
			row.Status = report.Status.String()
		}
		result.Rows = append(result.Rows, row)
	}

	logger.Debug().Int("repositories", len(result.Rows)).Msg("Status collected")
	return result, nil
}
