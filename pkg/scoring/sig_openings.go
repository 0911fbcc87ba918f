package scoring

import "strings"

// OpeningUniformitySignal detects sentences that mechanically start with the same word.
type OpeningUniformitySignal struct {
	Weight       int
	MinSentences int     // only score with at least this many sentences
	MaxShare     float64 // trigger when the top opening word exceeds this share
}

func (m *OpeningUniformitySignal) Key() string  { return "uniform_openings" }
func (m *OpeningUniformitySignal) Name() string { return "Uniform sentence openings" }

func (m *OpeningUniformitySignal) Evaluate(s *Sample) SignalResult {
	result := SignalResult{
		Key:     m.Key(),
		Name:    m.Name(),
		Kind:    KindUniformityThreshold,
		Weight:  m.Weight,
		Message: MsgUniformOpenings,
	}
	if len(s.Sentences) < m.MinSentences {
		return result
	}

	freq := make(map[string]int)
	total, top := 0, 0
	for _, sentence := range s.Sentences {
		fields := strings.Fields(sentence)
		if len(fields) == 0 {
			continue
		}
		total++
		freq[fields[0]]++
		if freq[fields[0]] > top {
			top = freq[fields[0]]
		}
	}
	if total == 0 {
		return result
	}

	result.Value = float64(top) / float64(total)
	result.Triggered = result.Value > m.MaxShare
	return result
}
