// Package textnorm prepares Portuguese email text for keyword matching.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// Normalize lowercases the text, strips accents via Unicode decomposition,
// replaces non-word characters with spaces and collapses whitespace.
// Deterministic and pure; empty input yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := stripAccents(text)
	s = strings.ToLower(s)
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	s = nonWordRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func stripAccents(text string) string {
	// The transformer is stateful, so build a fresh chain per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}

	return out
}

// HasAlphaNum reports whether s contains at least one letter or digit.
func HasAlphaNum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}

	return false
}

// ContainsDigit reports whether s contains a decimal digit.
func ContainsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

// WordCount counts whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
