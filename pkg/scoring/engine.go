package scoring

import "golang.org/x/text/language"

// Signal is the interface that all authenticity heuristics implement.
// Implementations must be pure and total: any string, including "", is valid input.
type Signal interface {
	// Key returns the machine-readable signal identifier.
	Key() string
	// Name returns the human-readable signal name.
	Name() string
	// Evaluate inspects a prepared sample. Weight, Triggered and Message must be set;
	// Reason is filled in by the engine.
	Evaluate(s *Sample) SignalResult
}

// Engine runs all configured signals against a text and produces a ScoreReport.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	threshold int
	signals   []Signal
	catalog   *Catalog
}

// NewEngine creates a scoring engine with the given threshold and signals,
// reporting reasons in English.
func NewEngine(threshold int, signals ...Signal) *Engine {
	return &Engine{threshold: threshold, signals: signals, catalog: English()}
}

// NewDefaultEngine creates an engine with the default weights and signal set.
func NewDefaultEngine() *Engine {
	w := Defaults()
	return NewEngine(w.Threshold, DefaultSignals(w)...)
}

// Localized returns a copy of the engine whose reasons use the catalog for tag.
func (e *Engine) Localized(tag language.Tag) *Engine {
	cp := *e
	cp.catalog = CatalogFor(tag)
	return &cp
}

// Threshold returns the flagging threshold.
func (e *Engine) Threshold() int { return e.threshold }

// Catalog returns the catalog used for reasons.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Signals returns the signal keys in evaluation order.
func (e *Engine) Signals() []string {
	keys := make([]string, 0, len(e.signals))
	for _, s := range e.signals {
		keys = append(keys, s.Key())
	}
	return keys
}

// Evaluate scores one text. It never fails: empty input yields a zero score.
func (e *Engine) Evaluate(text string) ScoreReport {
	sample := NewSample(text)

	report := ScoreReport{
		Reasons:   []string{},
		Threshold: e.threshold,
		Breakdown: make([]SignalResult, 0, len(e.signals)),
	}

	for _, sig := range e.signals {
		sr := sig.Evaluate(sample)
		if sr.Triggered {
			sr.Reason = e.catalog.Message(sr.Message)
			report.Score += sr.Weight
			report.Reasons = append(report.Reasons, sr.Reason)
		}
		report.Breakdown = append(report.Breakdown, sr)
	}

	report.Flagged = report.Score >= e.threshold
	return report
}
