package scoring

import (
	"regexp"
	"strings"
)

// Phrase is one stock expression in a given language.
type Phrase struct {
	Lang string
	Text string
}

// PhraseSignal detects unedited model output by stock self-referential phrases.
// Each PhraseSignal is one pattern group; several groups matching the same text compound.
type PhraseSignal struct {
	ID      string
	Label   string
	Weight  int
	Phrases []Phrase

	re *regexp.Regexp
}

// NewPhraseSignal compiles the phrase list into a single matcher.
func NewPhraseSignal(id, label string, weight int, phrases ...Phrase) *PhraseSignal {
	alts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		folded := NewSample(p.Text).Folded
		if folded == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(folded))
	}

	s := &PhraseSignal{ID: id, Label: label, Weight: weight, Phrases: phrases}
	if len(alts) > 0 {
		s.re = regexp.MustCompile(strings.Join(alts, "|"))
	}
	return s
}

func (m *PhraseSignal) Key() string  { return m.ID }
func (m *PhraseSignal) Name() string { return m.Label }

func (m *PhraseSignal) Evaluate(s *Sample) SignalResult {
	result := SignalResult{
		Key:     m.Key(),
		Name:    m.Name(),
		Kind:    KindPhraseMatch,
		Weight:  m.Weight,
		Message: MsgSelfReference,
	}
	if m.re == nil {
		return result
	}

	hits := m.re.FindAllStringIndex(s.Folded, -1)
	result.Value = float64(len(hits))
	result.Triggered = len(hits) > 0
	return result
}

// SelfReferencePhrases are the built-in pattern groups, in evaluation order.
// Matching is case-insensitive substring matching on the folded text.
var SelfReferencePhrases = []struct {
	ID      string
	Label   string
	Phrases []Phrase
}{
	{
		ID:    "self_reference_fr_identity",
		Label: "Self-referential AI phrase (FR identity)",
		Phrases: []Phrase{
			{Lang: "fr", Text: "en tant qu'ia"},
			{Lang: "fr", Text: "en tant que ia"},
			{Lang: "fr", Text: "comme ia"},
			{Lang: "fr", Text: "modèle de langage"},
		},
	},
	{
		ID:    "self_reference_en_identity",
		Label: "Self-referential AI phrase (EN identity)",
		Phrases: []Phrase{
			{Lang: "en", Text: "as an ai"},
			{Lang: "en", Text: "as a language model"},
			{Lang: "en", Text: "i am an ai"},
		},
	},
	{
		ID:    "self_reference_fr_refusal",
		Label: "Self-referential AI phrase (FR refusal)",
		Phrases: []Phrase{
			{Lang: "fr", Text: "je ne peux pas fournir"},
			{Lang: "fr", Text: "je ne peux pas donner"},
		},
	},
	{
		ID:    "self_reference_en_refusal",
		Label: "Self-referential AI phrase (EN refusal)",
		Phrases: []Phrase{
			{Lang: "en", Text: "i cannot provide"},
			{Lang: "en", Text: "i can't provide"},
		},
	},
}
