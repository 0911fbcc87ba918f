package scoring

import "golang.org/x/text/language"

// MessageKey identifies a localizable explanation.
type MessageKey string

const (
	MsgSelfReference   MessageKey = "self_reference"
	MsgLowDiversity    MessageKey = "low_lexical_diversity"
	MsgConnectors      MessageKey = "academic_connectors"
	MsgUniformOpenings MessageKey = "uniform_openings"
	MsgLongParagraphs  MessageKey = "long_paragraphs"
	MsgSuspicious      MessageKey = "suspicious_text"
)

// Catalog maps message keys to strings for one language.
type Catalog struct {
	tag      language.Tag
	messages map[MessageKey]string
}

var englishMessages = map[MessageKey]string{
	MsgSelfReference:   `Self-referential AI phrasing ("as an AI / language model").`,
	MsgLowDiversity:    "Low lexical diversity (heavy repetition).",
	MsgConnectors:      "Repetitive academic connectors (generic AI style).",
	MsgUniformOpenings: "Sentence openings are too uniform.",
	MsgLongParagraphs:  "Very long paragraphs without pacing.",
	MsgSuspicious:      "Suspicious text.",
}

var frenchMessages = map[MessageKey]string{
	MsgSelfReference:   "Formulation de type “en tant qu’IA/LM”.",
	MsgLowDiversity:    "Faible diversité lexicale (répétitions importantes).",
	MsgConnectors:      "Connecteurs académiques répétitifs (style générique IA).",
	MsgUniformOpenings: "Début de phrase trop uniforme.",
	MsgLongParagraphs:  "Paragraphes très longs sans respiration.",
	MsgSuspicious:      "Texte suspect.",
}

// SupportedLocales lists the languages with built-in messages; the first is the default.
var SupportedLocales = []language.Tag{language.English, language.French}

var localeMatcher = language.NewMatcher(SupportedLocales)

// English returns the default catalog.
func English() *Catalog { return &Catalog{tag: language.English, messages: englishMessages} }

// French returns the catalog used by the LSMC browser form.
func French() *Catalog { return &Catalog{tag: language.French, messages: frenchMessages} }

// CatalogFor returns the catalog best matching tag, falling back to English.
func CatalogFor(tag language.Tag) *Catalog {
	_, idx, _ := localeMatcher.Match(tag)
	if SupportedLocales[idx] == language.French {
		return French()
	}
	return English()
}

// ParseLocale resolves a locale name such as "fr", "fr-CA" or "en" to a supported tag.
// Unknown or empty input yields English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return CatalogFor(tag).Tag()
}

// MatchAcceptLanguage picks a supported tag from an Accept-Language header value.
func MatchAcceptLanguage(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, _ := localeMatcher.Match(tags...)
	return SupportedLocales[idx]
}

// Tag returns the catalog language.
func (c *Catalog) Tag() language.Tag { return c.tag }

// Message returns the localized string for key, or the key itself if unknown.
func (c *Catalog) Message(key MessageKey) string {
	if m, ok := c.messages[key]; ok {
		return m
	}
	return string(key)
}
