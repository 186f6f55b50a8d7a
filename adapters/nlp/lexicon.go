package nlp

import "strings"

// Sentiment labels emitted for each session note.
const (
	LabelPositive = "Positive"
	LabelNeutral  = "Neutral"
	LabelNegative = "Negative"
)

// Lexicon scores text by counting hits against weighted word lists. A
// deterministic stand-in for a model-based scorer; it satisfies the same
// label/confidence contract, so swapping in a real model later is a local
// change.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var defaultPositive = []string{
	"calm", "engaged", "smiled", "smiling", "initiated", "shared",
	"focused", "excited", "improved", "cooperative", "responsive",
	"laughed", "confident", "curious", "proud", "breakthrough",
}

var defaultNegative = []string{
	"frustrated", "distressed", "withdrawn", "refused", "crying",
	"agitated", "overwhelmed", "avoided", "meltdown", "upset",
	"anxious", "disengaged", "resistant", "struggled",
}

// NewLexicon builds the default clinical-note lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		positive: wordSet(defaultPositive),
		negative: wordSet(defaultNegative),
	}
}

// Score labels text and returns a confidence in (0, 1]. Confidence is the
// winning polarity's share of all lexicon hits; no hits at all is Neutral
// with full confidence.
func (l *Lexicon) Score(text string) (label string, confidence float64) {
	var pos, neg int
	for _, w := range Tokenize(text) {
		if _, ok := l.positive[w]; ok {
			pos++
		}
		if _, ok := l.negative[w]; ok {
			neg++
		}
	}
	total := pos + neg
	switch {
	case total == 0 || pos == neg:
		return LabelNeutral, 1.0
	case pos > neg:
		return LabelPositive, float64(pos) / float64(total)
	default:
		return LabelNegative, float64(neg) / float64(total)
	}
}

// Tokenize lowercases and splits text on non-letter boundaries.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isLetter(r)
	})
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func wordSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
