package gate

import (
	"context"

	"github.com/lsmc/candidature/pkg/scoring"
)

// Gate evaluates form fields with a scoring engine and tracks the previous
// per-field state so it can report transitions. A Gate is owned by a single
// caller and is not safe for concurrent use.
type Gate struct {
	engine    *scoring.Engine
	presenter Presenter
	fallback  string

	last        map[string]State
	transitions []Transition
}

// Option configures a Gate.
type Option func(*Gate)

// WithFallbackReason overrides the reason used when a flagged field produced none.
func WithFallbackReason(reason string) Option {
	return func(g *Gate) { g.fallback = reason }
}

// New creates a gate. A nil presenter discards side effects.
func New(engine *scoring.Engine, presenter Presenter, opts ...Option) *Gate {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	g := &Gate{
		engine:    engine,
		presenter: presenter,
		fallback:  engine.Catalog().Message(scoring.MsgSuspicious),
		last:      make(map[string]State),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// EvaluateField scores one field and updates its visual marker.
func (g *Gate) EvaluateField(f Field) FieldState {
	g.transitions = nil
	return g.evaluate(f)
}

// EvaluateForm scores every field from scratch, aggregates the result and
// toggles the warning panel and submit action accordingly.
func (g *Gate) EvaluateForm(fields []Field) FormGateState {
	g.transitions = nil

	state := FormGateState{
		Report: []string{},
		Fields: make([]FieldState, 0, len(fields)),
	}
	for _, f := range fields {
		fs := g.evaluate(f)
		state.Fields = append(state.Fields, fs)
		if !fs.Flagged {
			continue
		}
		state.AnyFlagged = true
		state.Report = append(state.Report, g.reportLine(fs))
	}

	if state.AnyFlagged {
		g.presenter.ShowWarning(state.Report)
		g.presenter.SetSubmitEnabled(false)
	} else {
		g.presenter.HideWarning()
		g.presenter.SetSubmitEnabled(true)
	}
	return state
}

// Submit evaluates the form and calls deliver only when no field is flagged.
// A blocked submission returns a *BlockedError wrapping ErrBlocked.
func (g *Gate) Submit(ctx context.Context, fields []Field, deliver func(context.Context) error) (FormGateState, error) {
	if err := ctx.Err(); err != nil {
		return FormGateState{}, err
	}

	state := g.EvaluateForm(fields)
	if state.AnyFlagged {
		return state, &BlockedError{Report: state.Report}
	}
	if deliver == nil {
		return state, nil
	}
	return state, deliver(ctx)
}

// Transitions returns the state changes produced by the most recent evaluation.
func (g *Gate) Transitions() []Transition {
	return append([]Transition(nil), g.transitions...)
}

// Engine returns the engine used by the gate.
func (g *Gate) Engine() *scoring.Engine { return g.engine }

func (g *Gate) evaluate(f Field) FieldState {
	report := g.engine.Evaluate(f.Text)

	fs := FieldState{
		FieldID: f.ID,
		Label:   f.Label,
		Flagged: report.Flagged,
		Reason:  report.FirstReason(),
		Score:   report.Score,
	}
	g.presenter.MarkField(f.ID, fs.Flagged)

	next := stateOf(fs.Flagged)
	prev, seen := g.last[f.ID]
	if !seen {
		prev = Clean
	}
	if prev != next {
		g.transitions = append(g.transitions, Transition{FieldID: f.ID, From: prev, To: next})
	}
	g.last[f.ID] = next

	return fs
}

func (g *Gate) reportLine(fs FieldState) string {
	label := fs.Label
	if label == "" {
		label = fs.FieldID
	}
	reason := fs.Reason
	if reason == "" {
		reason = g.fallback
	}
	return label + ": " + reason
}
