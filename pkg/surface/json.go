package surface

import (
	"encoding/json"
	"io"

	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/pkg/scoring"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, report *scoring.ScoreReport) error {
	return encodeIndented(w, report)
}

func (r *JSONRenderer) RenderForm(w io.Writer, state *gate.FormGateState) error {
	return encodeIndented(w, state)
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
