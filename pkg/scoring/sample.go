package scoring

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	wordPattern   = regexp.MustCompile(`[\p{L}\p{M}']+`)
	sentenceBreak = regexp.MustCompile(`[.!?\n]+`)

	// Typographic apostrophes are folded to ASCII so "qu’ia" and "qu'ia" tokenize alike.
	apostrophes = strings.NewReplacer("’", "'", "ʼ", "'", "‘", "'")
)

// Sample is one text field prepared for evaluation. It is created per call
// and never retained.
type Sample struct {
	Text      string   // trimmed, NFC-normalized input
	Folded    string   // lower-cased Text with unified apostrophes
	Words     []string // letter/apostrophe runs of Folded
	Sentences []string // trimmed, non-empty pieces of Folded split on . ! ? and newline
	Lines     []string // Text split on newline
}

// NewSample normalizes text and precomputes the token statistics shared by all signals.
func NewSample(text string) *Sample {
	t := strings.TrimSpace(norm.NFC.String(text))
	folded := apostrophes.Replace(cases.Lower(language.Und).String(t))

	s := &Sample{
		Text:   t,
		Folded: folded,
		Words:  wordPattern.FindAllString(folded, -1),
	}

	for _, piece := range sentenceBreak.Split(folded, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			s.Sentences = append(s.Sentences, piece)
		}
	}

	if t != "" {
		for _, line := range strings.Split(t, "\n") {
			s.Lines = append(s.Lines, strings.TrimSuffix(line, "\r"))
		}
	}

	return s
}

// WordCount returns the number of word tokens.
func (s *Sample) WordCount() int { return len(s.Words) }

// UniqueRatio returns distinct words over total words, or 1 for an empty sample.
func (s *Sample) UniqueRatio() float64 {
	if len(s.Words) == 0 {
		return 1
	}
	seen := make(map[string]struct{}, len(s.Words))
	for _, w := range s.Words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(s.Words))
}

// tokenizePhrase splits a phrase with the same rules applied to samples.
func tokenizePhrase(phrase string) []string {
	return NewSample(phrase).Words
}
