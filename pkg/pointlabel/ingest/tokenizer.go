package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Token is one primitive unit of a point label. Text keeps the original case
// for pattern rules; Folded is the uppercase form used for vocabulary lookups.
type Token struct {
	Text   string
	Folded string
}

// NewToken builds a Token from its original text.
func NewToken(text string) Token {
	return Token{Text: text, Folded: Fold(text)}
}

// Tokens tokenizes a label and pairs every token with its folded form.
func Tokens(label string) []Token {
	raw := Tokenize(label)
	if len(raw) == 0 {
		return nil
	}
	out := make([]Token, len(raw))
	for i, t := range raw {
		out[i] = NewToken(t)
	}
	return out
}

// Fold returns the case-folded (uppercase) form of a token.
// Non-ASCII input goes through full Unicode special casing, so "ß" folds to "SS".
func Fold(tok string) string {
	for i := 0; i < len(tok); i++ {
		if tok[i] >= utf8.RuneSelf {
			// Casers carry state and are not safe to share across goroutines.
			return cases.Upper(language.Und).String(tok)
		}
	}
	return strings.ToUpper(tok)
}

// Tokenize splits a point label into primitive tokens.
//
// The label is first cut on runs of separators (space, '_', '.', '-', '/', ':').
// Each fragment is then split at every letter/digit boundary, and any other
// character becomes a token of its own:
//
//	"AHU-03.SAT_AI" -> [AHU 03 SAT AI]
//	"RM1203E"       -> [RM 1203 E]
//	"CRAC-9/%"      -> [CRAC 9 %]
//
// Whitespace characters that are not separators (tabs, newlines) never appear
// as tokens. Empty or all-separator input yields nil.
func Tokenize(label string) []string {
	var tokens []string
	for _, frag := range strings.FieldsFunc(label, IsSeparator) {
		tokens = splitRuns(tokens, frag)
	}
	return tokens
}

// IsSeparator reports whether r splits a label into fragments.
func IsSeparator(r rune) bool {
	switch r {
	case ' ', '_', '.', '-', '/', ':':
		return true
	}
	return false
}

type runeClass int

const (
	classOther runeClass = iota
	classLetter
	classDigit
)

func classify(r rune) runeClass {
	switch {
	case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		return classLetter
	case unicode.IsDigit(r):
		return classDigit
	}
	return classOther
}

// splitRuns appends the letter runs, digit runs and single other characters
// of frag to tokens.
func splitRuns(tokens []string, frag string) []string {
	start := -1
	prev := classOther

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, frag[start:end])
			start = -1
		}
	}

	for i, r := range frag {
		c := classify(r)
		if c == classOther {
			flush(i)
			prev = classOther
			if unicode.IsSpace(r) {
				continue
			}
			tokens = append(tokens, string(r))
			continue
		}
		if c != prev {
			flush(i)
			start = i
		}
		prev = c
	}
	flush(len(frag))
	return tokens
}

// IsDigits reports whether tok is non-empty and made only of decimal digits.
func IsDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
