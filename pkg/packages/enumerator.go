package packages

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/runner"
	"github.com/rs/zerolog"
)

// Lister reports the packages installed on the machine
type Lister interface {
	Installed(ctx context.Context) (Set, error)
}

// Enumerator obtains the installed snapshot from an external command that
// prints one package name per line.
type Enumerator struct {
	runner runner.Runner
	argv   []string
	dir    string
	logger zerolog.Logger
}

// NewEnumerator creates an enumerator running argv in dir
func NewEnumerator(r runner.Runner, argv []string, dir string) *Enumerator {
	return &Enumerator{
		runner: r,
		argv:   argv,
		dir:    dir,
		logger: logging.GetLogger("packages.enumerator"),
	}
}

// Installed runs the enumerator. A failed run or any unexpected line fails
// the whole call; a partial snapshot is never returned.
func (e *Enumerator) Installed(ctx context.Context) (Set, error) {
	if len(e.argv) == 0 {
		return nil, errors.New(errors.ErrEnumerateFailed, "no enumerator command configured")
	}

	cmd := runner.Command{Name: e.argv[0], Args: e.argv[1:], Dir: e.dir}
	out, err := e.runner.Output(ctx, cmd)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEnumerateFailed, "failed to list installed packages with %q", cmd.String()).
			WithDetail("exitCode", runner.ExitCode(err))
	}

	names, err := parseInstalled(out)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().Int("count", len(names)).Msg("Enumerated installed packages")
	return NewSet(names...), nil
}

func parseInstalled(out []byte) ([]string, error) {
	if !utf8.Valid(out) {
		return nil, errors.New(errors.ErrEnumerateOutput, "enumerator output is not valid UTF-8")
	}

	var names []string
	for i, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.IndexFunc(line, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
			return nil, errors.Newf(errors.ErrEnumerateOutput, "unexpected enumerator output on line %d: %q", i+1, line)
		}
		names = append(names, line)
	}
	return names, nil
}
