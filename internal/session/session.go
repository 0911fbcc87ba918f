package session

import (
	"sync"
	"time"

	"github.com/lsmc/candidature/internal/gate"
)

// Session holds the latest text of every field a client has sent and the
// gate that evaluates them. Calls on one session are serialized.
type Session struct {
	ID string

	mu        sync.Mutex
	gate      *gate.Gate
	presenter *gate.RecordingPresenter
	order     []string
	fields    map[string]gate.Field
	lastUsed  time.Time
}

// Update is the outcome of one field edit.
type Update struct {
	Field       gate.FieldState    `json:"field"`
	Form        gate.FormGateState `json:"form"`
	Transitions []gate.Transition  `json:"transitions"`
	UI          gate.UIState       `json:"ui"`
}

// Update stores the new text of one field and re-evaluates the whole form
// so the aggregate reflects the latest text of every field.
func (s *Session) Update(f gate.Field) Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.fields[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.fields[f.ID] = f

	form := s.gate.EvaluateForm(s.current())

	u := Update{
		Form:        form,
		Transitions: s.gate.Transitions(),
		UI:          s.presenter.State(),
	}
	if u.Transitions == nil {
		u.Transitions = []gate.Transition{}
	}
	for _, fs := range form.Fields {
		if fs.FieldID == f.ID {
			u.Field = fs
			break
		}
	}
	return u
}

// Fields returns the current fields in the order they were first sent.
func (s *Session) Fields() []gate.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *Session) current() []gate.Field {
	out := make([]gate.Field, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.fields[id])
	}
	return out
}
