// Package gate aggregates per-field authenticity scores into a form-level
// allow/block decision and drives the presentation side effects of that decision.
package gate

import (
	"errors"
	"fmt"
)

// ErrBlocked is returned by Submit when at least one field is flagged.
var ErrBlocked = errors.New("submission blocked: suspicious text")

// Field is one free-text input of the form.
type Field struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// FieldState is the derived state of one field after an evaluation.
type FieldState struct {
	FieldID string `json:"field_id"`
	Label   string `json:"label"`
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason,omitempty"` // first triggered reason
	Score   int    `json:"score"`
}

// FormGateState is the aggregate over all fields of one evaluation.
type FormGateState struct {
	AnyFlagged bool         `json:"any_flagged"`
	Report     []string     `json:"report"` // "<label>: <reason>" per flagged field, in field order
	Fields     []FieldState `json:"fields"`
}

// State is the per-field gate state.
type State string

const (
	Clean   State = "clean"
	Flagged State = "flagged"
)

func stateOf(flagged bool) State {
	if flagged {
		return Flagged
	}
	return Clean
}

// Transition records a field changing state between two evaluations.
type Transition struct {
	FieldID string `json:"field_id"`
	From    State  `json:"from"`
	To      State  `json:"to"`
}

// BlockedError carries the warning report of a blocked submission.
type BlockedError struct {
	Report []string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%v (%d flagged field(s))", ErrBlocked, len(e.Report))
}

func (e *BlockedError) Unwrap() error { return ErrBlocked }
