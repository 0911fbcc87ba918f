package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Weights holds the scoring weights and trigger constants for all signals.
// The values are uncalibrated defaults shared with the browser form.
type Weights struct {
	Threshold int

	// Self-referential AI phrases, applied to each pattern group
	SelfReference int

	// Low lexical diversity
	Diversity         int
	DiversityMinWords int
	DiversityMaxRatio float64

	// Repetitive academic connectors
	Connectors        int
	ConnectorMinCount int
	ConnectorMinWords int

	// Uniform sentence openings
	Openings            int
	OpeningMinSentences int
	OpeningMaxShare     float64

	// Long unbroken paragraphs
	Paragraphs        int
	ParagraphMaxRunes int
	ParagraphMinLines int
}

// Defaults returns the default weights.
func Defaults() Weights {
	return Weights{
		Threshold: DefaultThreshold,

		SelfReference: 50,

		Diversity:         20,
		DiversityMinWords: 100,
		DiversityMaxRatio: 0.42,

		Connectors:        15,
		ConnectorMinCount: 3,
		ConnectorMinWords: 120,

		Openings:            10,
		OpeningMinSentences: 4,
		OpeningMaxShare:     0.6,

		Paragraphs:        10,
		ParagraphMaxRunes: 240,
		ParagraphMinLines: 2,
	}
}

// WithOverrides returns a copy of w with the named weights replaced.
// Recognized keys: threshold, self_reference, low_lexical_diversity,
// academic_connectors, uniform_openings, long_paragraphs.
func (w Weights) WithOverrides(overrides map[string]int) (Weights, error) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := overrides[k]
		if v < 0 {
			return w, fmt.Errorf("weight %q must be non-negative, got %d", k, v)
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "threshold":
			w.Threshold = v
		case "self_reference":
			w.SelfReference = v
		case "low_lexical_diversity":
			w.Diversity = v
		case "academic_connectors":
			w.Connectors = v
		case "uniform_openings":
			w.Openings = v
		case "long_paragraphs":
			w.Paragraphs = v
		default:
			return w, fmt.Errorf("unknown weight %q", k)
		}
	}
	return w, nil
}

// DefaultSignals returns the standard signal set in evaluation order.
func DefaultSignals(w Weights) []Signal {
	var signals []Signal
	for _, g := range SelfReferencePhrases {
		signals = append(signals, NewPhraseSignal(g.ID, g.Label, w.SelfReference, g.Phrases...))
	}
	return append(signals,
		&LexicalDiversitySignal{
			Weight:   w.Diversity,
			MinWords: w.DiversityMinWords,
			MaxRatio: w.DiversityMaxRatio,
		},
		NewConnectorSignal(w.Connectors, w.ConnectorMinCount, w.ConnectorMinWords, DefaultConnectors...),
		&OpeningUniformitySignal{
			Weight:       w.Openings,
			MinSentences: w.OpeningMinSentences,
			MaxShare:     w.OpeningMaxShare,
		},
		&LongParagraphSignal{
			Weight:   w.Paragraphs,
			MaxRunes: w.ParagraphMaxRunes,
			MinLines: w.ParagraphMinLines,
		},
	)
}
