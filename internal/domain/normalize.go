package domain

import (
	"strings"
	"unicode"
)

// Canonicalize turns an arbitrary word string into its canonical key:
//   - lowercases
//   - drops everything that is not a letter, whitespace, or hyphen
//   - collapses runs of hyphens and runs of whitespace
//   - trims leading/trailing hyphens and whitespace
//
// The result is empty for input with no letters; callers must skip such words.
// Canonicalize(Canonicalize(s)) == Canonicalize(s) for every s.
func Canonicalize(raw string) string {
	if raw == "" {
		return ""
	}
	raw = strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(raw))
	var prev rune
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r):
		case r == '-':
			if prev == '-' {
				continue
			}
		case unicode.IsSpace(r):
			r = ' '
			if prev == ' ' {
				continue
			}
		default:
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	return strings.TrimFunc(b.String(), isEdge)
}

func isEdge(r rune) bool {
	return r == '-' || unicode.IsSpace(r)
}

// Counterpart returns the alternate written form of a multi-word key:
// hyphens become spaces, or, for keys without hyphens, spaces become hyphens.
// Single words have no counterpart.
func Counterpart(key string) (string, bool) {
	if strings.Contains(key, "-") {
		return strings.ReplaceAll(key, "-", " "), true
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return strings.Join(strings.Fields(key), "-"), true
	}
	return "", false
}

// SanitizeIdiomQuery keeps only letters and single spaces, lowercased.
func SanitizeIdiomQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range strings.ToLower(q) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
