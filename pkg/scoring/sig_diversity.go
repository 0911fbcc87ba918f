package scoring

// LexicalDiversitySignal detects long, heavily repetitive text.
type LexicalDiversitySignal struct {
	Weight   int
	MinWords int     // only score if word count exceeds this
	MaxRatio float64 // trigger when unique/total falls below this
}

func (m *LexicalDiversitySignal) Key() string  { return "low_lexical_diversity" }
func (m *LexicalDiversitySignal) Name() string { return "Low lexical diversity" }

func (m *LexicalDiversitySignal) Evaluate(s *Sample) SignalResult {
	ratio := s.UniqueRatio()
	return SignalResult{
		Key:       m.Key(),
		Name:      m.Name(),
		Kind:      KindRatioThreshold,
		Weight:    m.Weight,
		Value:     ratio,
		Message:   MsgLowDiversity,
		Triggered: s.WordCount() > m.MinWords && ratio < m.MaxRatio,
	}
}
