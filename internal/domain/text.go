package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CleanText prepares a raw cell for storage:
//   - composes the string to NFC, so "I" + U+0307 and "İ" compare equal
//   - trims leading/trailing whitespace (including NBSP from spreadsheet exports)
//
// Inner whitespace and casing are preserved.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(norm.NFC.String(s))
}

// UpperText cleans s and upper-cases it with Turkish rules (i -> İ, ı -> I).
// A Caser is stateful, so one is built per call.
func UpperText(s string) string {
	s = CleanText(s)
	if s == "" {
		return ""
	}
	return cases.Upper(language.Turkish).String(s)
}

// EqualFoldText reports whether a and b are equal ignoring case. Both Turkish
// and default lower-casing are tried, so "TEMSİLCİ", "Temsilci" and "TEMSILCI"
// all match "temsilci".
func EqualFoldText(a, b string) bool {
	a, b = CleanText(a), CleanText(b)
	if a == b {
		return true
	}
	tr := cases.Lower(language.Turkish)
	if tr.String(a) == tr.String(b) {
		return true
	}
	return strings.ToLower(a) == strings.ToLower(b)
}

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OptionalText returns nil for an empty string and a pointer to s otherwise.
func OptionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
