package receipt

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLabelWidth is the widest tire label, in characters, that fits a table column.
const MaxLabelWidth = 15

var abbreviations = map[string]string{
	"forward": "Fwd",
	"drive":   "Dr",
}

// Abbreviation returns the short form of a word: a known abbreviation,
// otherwise its first letter uppercased.
func Abbreviation(word string) string {
	if abbr, ok := abbreviations[strings.ToLower(word)]; ok {
		return abbr
	}
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Abbreviator shortens the labels of one axle position.
type Abbreviator struct {
	AxleTitle string
	InOut     string
}

// Abbreviate reduces label one rule at a time until it is at most maxWidth
// characters or every rule has been applied.
func (a Abbreviator) Abbreviate(label string, maxWidth int) string {
	label = simplify(label)
	for _, rule := range a.rules() {
		if utf8.RuneCountInString(label) <= maxWidth {
			break
		}
		label = simplify(rule(label))
	}
	return label
}

func (a Abbreviator) rules() []func(string) string {
	titleWords := strings.Fields(a.AxleTitle)
	return []func(string) string{
		func(s string) string {
			s = replaceWord(s, "Left", "L")
			return replaceWord(s, "Right", "R")
		},
		func(s string) string {
			if len(titleWords) == 0 {
				return s
			}
			return replaceWord(s, titleWords[0], Abbreviation(titleWords[0]))
		},
		func(s string) string {
			return replaceWord(s, "Tire", "")
		},
		func(s string) string {
			if len(titleWords) < 2 {
				return s
			}
			for _, w := range titleWords[1:] {
				s = replaceWord(s, w, Abbreviation(w))
			}
			return s
		},
		func(s string) string {
			for _, w := range strings.Fields(a.InOut) {
				s = replaceWord(s, w, Abbreviation(w))
			}
			return s
		},
	}
}

// replaceWord replaces whole-word occurrences of word. Word characters are
// Unicode letters, digits and underscore.
func replaceWord(s, word, replacement string) string {
	if word == "" {
		return s
	}
	var b strings.Builder
	last, start := 0, 0
	for {
		i := strings.Index(s[start:], word)
		if i < 0 {
			break
		}
		i += start
		j := i + len(word)
		if atWordBoundary(s, i) && atWordBoundary(s, j) {
			b.WriteString(s[last:i])
			b.WriteString(replacement)
			last, start = j, j
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		start = i + size
	}
	b.WriteString(s[last:])
	return b.String()
}

func atWordBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// simplify collapses runs of spaces and joins adjacent single-letter tokens,
// so "L F O" becomes "LFO".
func simplify(s string) string {
	tokens := strings.Fields(s)
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && !(isSingleRune(tokens[i-1]) && isSingleRune(tok)) {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String()
}

func isSingleRune(s string) bool {
	return utf8.RuneCountInString(s) == 1
}
