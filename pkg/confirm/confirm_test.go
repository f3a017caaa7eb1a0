package confirm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"y", "y\n", true},
		{"yes_upper", "YES\n", true},
		{"yep", "  Yep  \n", true},
		{"n", "n\n", false},
		{"nope", "Nope\n", false},
		{"no_trailing_newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			got, err := p.Confirm("Overwrite /tmp/x?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Overwrite /tmp/x? (y/n): ", out.String())
		})
	}
}

func TestConfirmReasksUntilValid(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("maybe\n\nok\n  \nyes\n"), &out)

	got, err := p.Confirm("Pull?")
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 5, strings.Count(out.String(), "Pull? (y/n): "))
}

func TestConfirmEOF(t *testing.T) {
	t.Run("empty_input", func(t *testing.T) {
		p := New(strings.NewReader(""), &bytes.Buffer{})
		_, err := p.Confirm("Pull?")
		assert.True(t, errors.IsErrorCode(err, errors.ErrPrompt))
	})

	t.Run("only_invalid_answers", func(t *testing.T) {
		p := New(strings.NewReader("what\nhuh"), &bytes.Buffer{})
		_, err := p.Confirm("Pull?")
		assert.True(t, errors.IsErrorCode(err, errors.ErrPrompt))
	})
}

func TestConfirmSequentialQuestions(t *testing.T) {
	p := New(strings.NewReader("n\ny\n"), &bytes.Buffer{})

	first, err := p.Confirm("one?")
	require.NoError(t, err)
	second, err := p.Confirm("two?")
	require.NoError(t, err)

	assert.False(t, first)
	assert.True(t, second)
}
