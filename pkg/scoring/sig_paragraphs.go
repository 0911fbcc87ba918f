package scoring

import "unicode/utf8"

// LongParagraphSignal detects dense lines without natural pacing.
// Length is measured in runes.
type LongParagraphSignal struct {
	Weight   int
	MaxRunes int // a line longer than this counts as long
	MinLines int // trigger when this many lines are long
}

func (m *LongParagraphSignal) Key() string  { return "long_paragraphs" }
func (m *LongParagraphSignal) Name() string { return "Long unbroken paragraphs" }

func (m *LongParagraphSignal) Evaluate(s *Sample) SignalResult {
	long := 0
	for _, line := range s.Lines {
		if utf8.RuneCountInString(line) > m.MaxRunes {
			long++
		}
	}
	return SignalResult{
		Key:       m.Key(),
		Name:      m.Name(),
		Kind:      KindCountThreshold,
		Weight:    m.Weight,
		Value:     float64(long),
		Message:   MsgLongParagraphs,
		Triggered: long >= m.MinLines,
	}
}
