package scoring

// ConnectorSignal detects formulaic essay structuring ("firstly", "moreover", "in conclusion").
// Connectors are matched as whole-token sequences and every occurrence counts.
type ConnectorSignal struct {
	Weight     int
	MinCount   int // trigger when occurrences reach this
	MinWords   int // only score if word count exceeds this
	Connectors []Phrase

	tokens [][]string
}

// NewConnectorSignal tokenizes the connector list once.
func NewConnectorSignal(weight, minCount, minWords int, connectors ...Phrase) *ConnectorSignal {
	m := &ConnectorSignal{
		Weight:     weight,
		MinCount:   minCount,
		MinWords:   minWords,
		Connectors: connectors,
	}
	for _, c := range connectors {
		if toks := tokenizePhrase(c.Text); len(toks) > 0 {
			m.tokens = append(m.tokens, toks)
		}
	}
	return m
}

func (m *ConnectorSignal) Key() string  { return "academic_connectors" }
func (m *ConnectorSignal) Name() string { return "Repetitive academic connectors" }

func (m *ConnectorSignal) Evaluate(s *Sample) SignalResult {
	count := m.count(s.Words)
	return SignalResult{
		Key:       m.Key(),
		Name:      m.Name(),
		Kind:      KindCountThreshold,
		Weight:    m.Weight,
		Value:     float64(count),
		Message:   MsgConnectors,
		Triggered: count >= m.MinCount && s.WordCount() > m.MinWords,
	}
}

func (m *ConnectorSignal) count(words []string) int {
	n := 0
	for _, seq := range m.tokens {
		for i := 0; i+len(seq) <= len(words); i++ {
			if hasPrefix(words[i:], seq) {
				n++
				i += len(seq) - 1
			}
		}
	}
	return n
}

func hasPrefix(words, seq []string) bool {
	for j, w := range seq {
		if words[j] != w {
			return false
		}
	}
	return true
}

// DefaultConnectors is the built-in bilingual connector list.
var DefaultConnectors = []Phrase{
	{Lang: "fr", Text: "premièrement"},
	{Lang: "fr", Text: "deuxièmement"},
	{Lang: "fr", Text: "en conclusion"},
	{Lang: "fr", Text: "de plus"},
	{Lang: "fr", Text: "par ailleurs"},
	{Lang: "fr", Text: "néanmoins"},
	{Lang: "fr", Text: "par conséquent"},
	{Lang: "en", Text: "firstly"},
	{Lang: "en", Text: "secondly"},
	{Lang: "en", Text: "in conclusion"},
	{Lang: "en", Text: "moreover"},
	{Lang: "en", Text: "furthermore"},
}
