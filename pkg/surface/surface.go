// Package surface defines output rendering for screening results and the
// chat-webhook messages built from a candidature.
package surface

import (
	"io"

	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/pkg/scoring"
)

// Renderer produces formatted output for a single text report or a whole form.
type Renderer interface {
	// Render writes one field's score report.
	Render(w io.Writer, report *scoring.ScoreReport) error
	// RenderForm writes the aggregate gate state of a form.
	RenderForm(w io.Writer, state *gate.FormGateState) error
}

// NewRenderer returns the renderer for an output format: "json" or anything else for text.
func NewRenderer(format string) Renderer {
	if format == "json" {
		return &JSONRenderer{}
	}
	return &TerminalRenderer{}
}
