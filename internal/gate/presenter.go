package gate

import "fmt"

// Presenter receives the UI side effects of gate evaluations.
type Presenter interface {
	MarkField(fieldID string, flagged bool)
	ShowWarning(report []string)
	HideWarning()
	SetSubmitEnabled(enabled bool)
}

// NopPresenter discards all side effects.
type NopPresenter struct{}

func (NopPresenter) MarkField(string, bool) {}
func (NopPresenter) ShowWarning([]string)   {}
func (NopPresenter) HideWarning()           {}
func (NopPresenter) SetSubmitEnabled(bool)  {}

// UIState is what a form would display after replaying every Presenter call.
type UIState struct {
	Marked         map[string]bool `json:"marked"`
	Warning        []string        `json:"warning,omitempty"`
	WarningVisible bool            `json:"warning_visible"`
	SubmitEnabled  bool            `json:"submit_enabled"`
}

// RecordingPresenter keeps the resulting UI state and a log of calls.
// Remote clients replay its state instead of a DOM.
type RecordingPresenter struct {
	state UIState
	Calls []string
}

// NewRecordingPresenter returns a presenter with nothing marked and submission enabled.
func NewRecordingPresenter() *RecordingPresenter {
	return &RecordingPresenter{state: UIState{Marked: map[string]bool{}, SubmitEnabled: true}}
}

func (p *RecordingPresenter) MarkField(fieldID string, flagged bool) {
	p.state.Marked[fieldID] = flagged
	p.Calls = append(p.Calls, fmt.Sprintf("mark %s %t", fieldID, flagged))
}

func (p *RecordingPresenter) ShowWarning(report []string) {
	p.state.Warning = append([]string(nil), report...)
	p.state.WarningVisible = true
	p.Calls = append(p.Calls, fmt.Sprintf("warn %d", len(report)))
}

func (p *RecordingPresenter) HideWarning() {
	p.state.Warning = nil
	p.state.WarningVisible = false
	p.Calls = append(p.Calls, "hide")
}

func (p *RecordingPresenter) SetSubmitEnabled(enabled bool) {
	p.state.SubmitEnabled = enabled
	p.Calls = append(p.Calls, fmt.Sprintf("submit %t", enabled))
}

// State returns a copy of the current UI state.
func (p *RecordingPresenter) State() UIState {
	s := p.state
	s.Marked = make(map[string]bool, len(p.state.Marked))
	for k, v := range p.state.Marked {
		s.Marked[k] = v
	}
	s.Warning = append([]string(nil), p.state.Warning...)
	return s
}
