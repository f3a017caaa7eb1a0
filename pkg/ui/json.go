package ui

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/rig/pkg/commands/setup"
	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/packages"
)

// JSONRenderer writes indented JSON documents
type JSONRenderer struct {
	w io.Writer
}

func (r *JSONRenderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderResult encodes result. Results holding error values are converted
// to views with error strings first.
func (r *JSONRenderer) RenderResult(result interface{}) error {
	if res, ok := result.(*setup.Result); ok {
		return r.encode(newSetupView(res))
	}
	return r.encode(result)
}

// RenderError encodes err with its code and details
func (r *JSONRenderer) RenderError(err error) error {
	return r.encode(errorView{
		Error:   err.Error(),
		Code:    string(errors.GetErrorCode(err)),
		Details: errors.GetErrorDetails(err),
	})
}

type errorView struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type installView struct {
	Kind      string   `json:"kind"`
	Present   []string `json:"present"`
	Installed []string `json:"installed"`
	Failed    []string `json:"failed"`
}

type outcomeView struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	State       string   `json:"state"`
	Trail       []string `json:"trail"`
	ScriptRan   bool     `json:"script_ran"`
	ScriptError string   `json:"script_error,omitempty"`
	Error       string   `json:"error,omitempty"`
}

type scriptView struct {
	Script string `json:"script"`
	Error  string `json:"error,omitempty"`
}

type setupView struct {
	Profiles      []string      `json:"profiles"`
	Python        *installView  `json:"python,omitempty"`
	System        *installView  `json:"system,omitempty"`
	InstallErrors []string      `json:"install_errors,omitempty"`
	Repositories  []outcomeView `json:"repositories"`
	Maintenance   []scriptView  `json:"maintenance,omitempty"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func newInstallView(report *packages.InstallReport) *installView {
	if report == nil {
		return nil
	}
	return &installView{
		Kind:      report.Kind.String(),
		Present:   report.Present,
		Installed: report.Installed,
		Failed:    report.Failed,
	}
}

func newSetupView(res *setup.Result) setupView {
	view := setupView{
		Profiles:     res.Profiles,
		Python:       newInstallView(res.Python),
		System:       newInstallView(res.System),
		Repositories: make([]outcomeView, 0, len(res.Outcomes)),
	}
	for _, err := range res.InstallErrors {
		view.InstallErrors = append(view.InstallErrors, err.Error())
	}
	for _, o := range res.Outcomes {
		trail := make([]string, 0, len(o.Trail))
		for _, s := range o.Trail {
			trail = append(trail, s.String())
		}
		view.Repositories = append(view.Repositories, outcomeView{
			Name:        o.Declaration.Name,
			Location:    o.Declaration.Location,
			State:       o.State.String(),
			Trail:       trail,
			ScriptRan:   o.ScriptRan,
			ScriptError: errString(o.ScriptErr),
			Error:       errString(o.Err),
		})
	}
	for _, s := range res.Maintenance {
		view.Maintenance = append(view.Maintenance, scriptView{Script: s.Script, Error: errString(s.Err)})
	}
	return view
}
