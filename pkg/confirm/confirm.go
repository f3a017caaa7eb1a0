// Package confirm asks the operator yes/no questions before destructive
// operations such as overwriting a repository location or pulling.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/rig/pkg/errors"
)

// Confirmer answers yes/no questions
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Prompter reads answers line by line from an input stream.
// A Prompter must be reused for the whole session: it buffers input, so
// creating a second one on the same reader may lose answers.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter over the given streams
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm writes "<question> (y/n): " and waits for an answer starting with
// y or n, case-insensitively. Anything else asks again, with no limit.
// Running out of input is an error; there is no default answer.
func (p *Prompter) Confirm(question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(p.out, "%s (y/n): ", question); err != nil {
			return false, errors.Wrap(err, errors.ErrPrompt, "failed to write prompt")
		}

		line, err := p.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				fmt.Fprintln(p.out)
				return false, errors.Newf(errors.ErrPrompt, "no answer to %q: input closed", question)
			}
			return false, errors.Wrap(err, errors.ErrPrompt, "failed to read answer")
		}

		answer := strings.ToLower(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(answer, "y"):
			return true, nil
		case strings.HasPrefix(answer, "n"):
			return false, nil
		}

		if err == io.EOF {
			fmt.Fprintln(p.out)
			return false, errors.Newf(errors.ErrPrompt, "no answer to %q: input closed", question)
		}
	}
}
