package packages

import (
	"context"
	"strings"

	"github.com/arthur-debert/rig/pkg/config"
	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/runner"
	"github.com/rs/zerolog"
)

// Kind distinguishes the two package managers rig drives
type Kind int

const (
	// System packages come from the OS package manager
	System Kind = iota
	// Python packages come from the python package manager
	Python
)

func (k Kind) String() string {
	switch k {
	case System:
		return "system"
	case Python:
		return "python"
	default:
		return "unknown"
	}
}

// Templates holds the argv prefixes for one kind. The package name is
// appended as the final argument.
type Templates struct {
	Install []string
	Check   []string
}

func (t Templates) command(prefix []string, pkg string) runner.Command {
	return runner.Command{Name: prefix[0], Args: append(append([]string{}, prefix[1:]...), pkg)}
}

// InstallReport summarises one Ensure call
type InstallReport struct {
	Kind      Kind
	Present   []string
	Installed []string
	Failed    []string
}

// Installer makes sure packages of each kind are installed
type Installer struct {
	runner    runner.Runner
	templates map[Kind]Templates
	logger    zerolog.Logger
}

// NewInstaller creates an installer with the command templates from cfg
func NewInstaller(r runner.Runner, cfg config.PackagesConfig) *Installer {
	return &Installer{
		runner: r,
		templates: map[Kind]Templates{
			System: {Install: cfg.System.Install, Check: cfg.System.Check},
			Python: {Install: cfg.Python.Install, Check: cfg.Python.Check},
		},
		logger: logging.GetLogger("packages.installer"),
	}
}

// Ensure checks each package in sorted order and installs the ones whose
// check command fails. Every package is attempted; install failures are
// returned together as one INSTALL error.
func (i *Installer) Ensure(ctx context.Context, kind Kind, pkgs Set) (*InstallReport, error) {
	report := &InstallReport{Kind: kind}

	t, ok := i.templates[kind]
	if !ok || len(t.Install) == 0 || len(t.Check) == 0 {
		return report, errors.Newf(errors.ErrInternal, "no command templates for %s packages", kind)
	}

	done := logging.LogOperationStart(i.logger, "ensure "+kind.String()+" packages")
	defer done()

	for _, name := range pkgs.Sorted() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if _, err := i.runner.Output(ctx, t.command(t.Check, name)); err == nil {
			i.logger.Debug().Str("kind", kind.String()).Str("package", name).Msg("Already installed")
			report.Present = append(report.Present, name)
			continue
		}

		if err := i.runner.Run(ctx, t.command(t.Install, name)); err != nil {
			i.logger.Error().Err(err).Str("kind", kind.String()).Str("package", name).Msg("Install failed")
			report.Failed = append(report.Failed, name)
			continue
		}

		i.logger.Info().Str("kind", kind.String()).Str("package", name).Msg("Installed package")
		report.Installed = append(report.Installed, name)
	}

	if len(report.Failed) > 0 {
		return report, errors.Newf(errors.ErrInstall, "failed to install %d %s package(s): %s",
			len(report.Failed), kind, strings.Join(report.Failed, ", ")).
			WithDetail("failed", report.Failed)
	}
	return report, nil
}
