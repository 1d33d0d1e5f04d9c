package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalized is the canonical form of a raw query string
type Normalized struct {
	Text   string   // tokens joined by single spaces
	Tokens []string // in original order
}

// Empty reports whether nothing remained after normalization
func (n Normalized) Empty() bool {
	return len(n.Tokens) == 0
}

// Normalize canonicalizes a raw query or catalog field value:
// Persian/Arabic-Indic digits fold to ASCII, Arabic letter variants fold to
// their Persian forms, diacritics and zero-width joiners are stripped, Latin
// segments are lowercased, and the text is tokenized on whitespace and
// punctuation. Persian/Arabic letters have no case and pass through.
//
// Normalize is idempotent: Normalize(n.Text) reproduces n. Empty and
// whitespace-only input yields an empty token list, never an error.
func Normalize(raw string) Normalized {
	if raw == "" {
		return Normalized{}
	}

	folded := strings.Map(foldRune, raw)
	stripped := stripMarks(folded)
	lowered := strings.ToLower(stripped)

	tokens := tokenize(lowered)
	if len(tokens) == 0 {
		return Normalized{}
	}

	return Normalized{
		Text:   strings.Join(tokens, " "),
		Tokens: tokens,
	}
}

// NormalizeCode canonicalizes an OEM/brand code the way catalog ingestion
// does: digit folding, mark stripping, lowercasing, then every non-letter,
// non-digit rune (dashes, dots, spaces) removed. "T11-3501080" and
// "t11 3501080" normalize to the same key.
func NormalizeCode(raw string) string {
	folded := strings.Map(foldRune, raw)
	stripped := stripMarks(folded)
	lowered := strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripMarks removes combining marks (Arabic diacritics, Latin accents).
// The transformer chain is stateful, so it is built per call rather than
// shared; transform.Chain is not safe for concurrent use.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldRune maps digit and letter variants to their canonical forms and turns
// zero-width joiners into word boundaries.
func foldRune(r rune) rune {
	switch {
	case r >= '۰' && r <= '۹': // Extended Arabic-Indic (Persian) digits
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩': // Arabic-Indic digits
		return '0' + (r - '٠')
	case r == 'ي': // Arabic yeh -> Persian yeh
		return 'ی'
	case r == 'ك': // Arabic kaf -> Persian keheh
		return 'ک'
	case r == 'ة': // teh marbuta -> heh
		return 'ه'
	case r == '\u200c' || r == '\u200d': // ZWNJ/ZWJ are word boundaries
		return ' '
	}
	return r
}

// tokenize splits on every non-letter, non-digit rune and drops empty tokens
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
