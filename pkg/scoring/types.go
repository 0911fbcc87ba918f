// Package scoring implements the candidature text-authenticity scorer.
// It inspects one free-text answer and produces an explainable suspicion score
// built from independent, additive heuristic signals.
package scoring

// DefaultThreshold is the score at or above which a text is flagged.
const DefaultThreshold = 40

// ScoreReport is the complete output of evaluating every signal against one text sample.
// Immutable once computed.
type ScoreReport struct {
	Score     int            `json:"score"`
	Reasons   []string       `json:"reasons"` // triggered explanations, in signal order
	Flagged   bool           `json:"flagged"`
	Threshold int            `json:"threshold"`
	Breakdown []SignalResult `json:"breakdown"` // one entry per evaluated signal
}

// FirstReason returns the first triggered explanation, or "" when nothing triggered.
func (r ScoreReport) FirstReason() string {
	if len(r.Reasons) == 0 {
		return ""
	}
	return r.Reasons[0]
}

// Triggered returns the keys of the signals that fired, in evaluation order.
func (r ScoreReport) Triggered() []string {
	var keys []string
	for _, sr := range r.Breakdown {
		if sr.Triggered {
			keys = append(keys, sr.Key)
		}
	}
	return keys
}

// SignalResult is the output of a single signal.
type SignalResult struct {
	Key       string     `json:"key"`  // machine key: "low_lexical_diversity"
	Name      string     `json:"name"` // human name: "Low lexical diversity"
	Kind      Kind       `json:"kind"`
	Weight    int        `json:"weight"`
	Triggered bool       `json:"triggered"`
	Value     float64    `json:"value"` // measured quantity (ratio, count, share)
	Message   MessageKey `json:"message"`
	Reason    string     `json:"reason,omitempty"` // localized by the engine when triggered
}

// Contribution is the weight this result adds to the total score.
func (r SignalResult) Contribution() int {
	if !r.Triggered {
		return 0
	}
	return r.Weight
}

// Kind classifies how a signal decides to trigger.
type Kind string

const (
	KindPhraseMatch         Kind = "PHRASE_MATCH"
	KindRatioThreshold      Kind = "RATIO_THRESHOLD"
	KindCountThreshold      Kind = "COUNT_THRESHOLD"
	KindUniformityThreshold Kind = "UNIFORMITY_THRESHOLD"
)
