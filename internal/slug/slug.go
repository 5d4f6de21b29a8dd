// Package slug turns free text into filesystem-safe tokens.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when normalization leaves nothing behind.
const Fallback = "untitled"

// Separator joins words inside a slug.
const Separator = '-'

// Normalize converts text into a lowercase slug:
//   - accents are folded ("Café" -> "cafe")
//   - characters outside [a-z0-9_-] and whitespace are dropped
//   - whitespace runs become a single "-", repeated "-" collapse
//   - leading/trailing "-" and "_" are trimmed
//   - the result is truncated to maxLen and trimmed again
//
// maxLen <= 0 disables truncation; values shorter than len(Fallback) are
// raised to it. Empty results yield Fallback.
func Normalize(text string, maxLen int) string {
	if maxLen > 0 && maxLen < len(Fallback) {
		maxLen = len(Fallback)
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range fold(strings.ToLower(text)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			if pendingSep && b.Len() > 0 {
				b.WriteRune(Separator)
			}
			pendingSep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == Separator:
			pendingSep = true
		}
		// everything else is dropped
	}

	result := trim(b.String())
	if maxLen > 0 && len(result) > maxLen {
		result = trim(result[:maxLen])
	}
	if result == "" {
		return Fallback
	}
	return result
}

// fold strips combining marks after canonical decomposition.
// On transform failure the input is returned unchanged.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func trim(s string) string {
	return strings.Trim(s, "-_")
}
