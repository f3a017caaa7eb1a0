package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/rig/pkg/commands/pkgs"
	"github.com/arthur-debert/rig/pkg/commands/setup"
	"github.com/arthur-debert/rig/pkg/commands/status"
	"github.com/arthur-debert/rig/pkg/packages"
	"github.com/arthur-debert/rig/pkg/provision"
	"github.com/arthur-debert/rig/pkg/ui/styles"
)

// ConsoleRenderer writes human-readable output, styled when attached to a
// color terminal
type ConsoleRenderer struct {
	w      io.Writer
	styled bool
}

func (r *ConsoleRenderer) style(name, s string) string {
	if !r.styled {
		return s
	}
	return styles.GetStyle(name).Render(s)
}

func (r *ConsoleRenderer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// RenderResult writes a command result
func (r *ConsoleRenderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *status.Result:
		r.renderStatus(v)
	case *pkgs.ListResult:
		r.renderList(v)
	case *pkgs.ResolveResult:
		r.renderResolve(v)
	case *pkgs.ProfilesResult:
		r.renderProfiles(v)
	case *setup.Result:
		r.renderSetup(v)
	default:
		return unsupported(result)
	}
	return nil
}

// RenderError writes err, which carries its own error code
func (r *ConsoleRenderer) RenderError(err error) error {
	r.printf("%s %v\n", r.style("Error", "error:"), err)
	return nil
}

// statusLine pads before styling so escape codes do not skew the columns
func (r *ConsoleRenderer) statusLine(name, location, state, stateStyle string) {
	r.printf("%s : %s : %s\n",
		r.style("Name", fmt.Sprintf("%-10s", name)),
		r.style("Path", fmt.Sprintf("%-50.50s", location)),
		r.style(stateStyle, fmt.Sprintf("%-5s", state)))
}

func (r *ConsoleRenderer) renderStatus(res *status.Result) {
	for _, row := range res.Rows {
		switch {
		case row.Error != "":
			r.statusLine(row.Name, row.Location, "Error", "Error")
			r.printf("  %s\n", r.style("Muted", row.Error))
		case res.Pull && row.Pulled:
			r.statusLine(row.Name, row.Location, "Pulled", "Success")
			r.printf("  %s\n", r.style("Muted", "branch "+row.Branch))
		case res.Pull:
			r.statusLine(row.Name, row.Location, "Skipped", "Warning")
		case row.Status == provision.Dirty.String():
			r.statusLine(row.Name, row.Location, row.Status, "Warning")
		default:
			r.statusLine(row.Name, row.Location, row.Status, "Success")
		}
	}
}

func (r *ConsoleRenderer) renderList(res *pkgs.ListResult) {
	for _, name := range res.Packages {
		r.printf("%s\n", name)
	}
	if !res.Persisted {
		return
	}
	target := res.Profile
	if target == "" {
		target = "the selected profiles"
	}
	r.printf("%s\n", r.style("Success",
		fmt.Sprintf("%s: %d package(s) written to %s", res.Command, len(res.Packages), target)))
}

func (r *ConsoleRenderer) renderResolve(res *pkgs.ResolveResult) {
	r.printf("%s %s\n", r.style("Header", "Profiles:"), strings.Join(res.Profiles, ", "))
	r.printf("%s\n", r.style("Header", fmt.Sprintf("System packages (%d)", len(res.System))))
	for _, name := range res.System {
		r.printf("  %s\n", name)
	}
	r.printf("%s\n", r.style("Header", fmt.Sprintf("Python packages (%d)", len(res.Python))))
	for _, name := range res.Python {
		r.printf("  %s\n", name)
	}
}

func (r *ConsoleRenderer) renderProfiles(res *pkgs.ProfilesResult) {
	if len(res.Profiles) == 0 {
		r.printf("%s\n", r.style("Muted", "no profiles in "+res.Root))
		return
	}
	for _, name := range res.Profiles {
		r.printf("%s\n", name)
	}
}

func (r *ConsoleRenderer) renderInstall(report *packages.InstallReport) {
	if report == nil {
		return
	}
	r.printf("%s %d present, %d installed, %d failed\n",
		r.style("Header", report.Kind.String()+" packages:"),
		len(report.Present), len(report.Installed), len(report.Failed))
	for _, name := range report.Failed {
		r.printf("  %s %s\n", r.style("Error", "failed"), name)
	}
}

func (r *ConsoleRenderer) renderSetup(res *setup.Result) {
	r.printf("%s %s\n", r.style("Header", "Profiles:"), strings.Join(res.Profiles, ", "))
	r.renderInstall(res.Python)
	r.renderInstall(res.System)
	for _, err := range res.InstallErrors {
		r.printf("  %s\n", r.style("Error", err.Error()))
	}

	r.printf("%s %d done, %d skipped, %d failed\n",
		r.style("Header", "Repositories:"),
		res.Count(provision.Done), res.Count(provision.Skipped), res.Count(provision.Failed))
	for _, o := range res.Outcomes {
		switch {
		case o.Err != nil:
			r.printf("  %s %s\n", r.style("Error", fmt.Sprintf("%-10s", o.Declaration.Name)), o.Err)
		case o.ScriptErr != nil:
			r.printf("  %s script failed: %v\n", r.style("Warning", fmt.Sprintf("%-10s", o.Declaration.Name)), o.ScriptErr)
		}
	}

	if len(res.Maintenance) == 0 {
		return
	}
	failed := 0
	for _, s := range res.Maintenance {
		if s.Err != nil {
			failed++
			r.printf("  %s %v\n", r.style("Error", "maintenance"), s.Err)
		}
	}
	r.printf("%s %d run, %d failed\n", r.style("Header", "Maintenance:"), len(res.Maintenance), failed)
}
