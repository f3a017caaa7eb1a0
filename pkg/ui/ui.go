// Package ui renders command results for the terminal, plain text or JSON.
package ui

import (
	"fmt"
	"io"
)

// Renderer writes command results to an output stream
type Renderer interface {
	// RenderResult writes a command result. Unknown result types are an error.
	RenderResult(result interface{}) error
	// RenderError writes a failure report
	RenderError(err error) error
}

// NewRenderer returns a renderer for format writing to w. FormatAuto is
// resolved against w.
func NewRenderer(format Format, w io.Writer) Renderer {
	if format == FormatAuto {
		format = DetectFormat(w)
	}

	switch format {
	case FormatJSON:
		return &JSONRenderer{w: w}
	case FormatTerminal:
		return &ConsoleRenderer{w: w, styled: true}
	default:
		return &ConsoleRenderer{w: w}
	}
}

func unsupported(result interface{}) error {
	return fmt.Errorf("cannot render result of type %T", result)
}
