package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/AntoC-dev/recipelens/internal/terms"
)

// servingMarkerSuffix is appended to the preceding line when the recognizer
// splits a person marker and its suffix across lines ("2" / "pers.").
const servingMarkerSuffix = "p"

// NormalizeLines cleans raw recognized lines for the table parsers:
// header stripped, split serving suffixes re-attached, blanks dropped,
// O-for-zero confusions repaired. Pure function; the input slice is not
// modified.
func NormalizeLines(lines []string, cat *terms.Catalog) []string {
	out := make([]string, 0, len(lines))
	for i, raw := range lines {
		line := CleanText(raw)

		if i == 0 && cat != nil && matchesPhrase(line, cat.BoxHeaders) {
			continue
		}
		if cat != nil && matchesPhrase(line, cat.ServingSuffixes) {
			if len(out) > 0 {
				out[len(out)-1] += servingMarkerSuffix
			}
			continue
		}
		if line == "" {
			continue
		}
		out = append(out, fixZeroConfusion(line))
	}
	return out
}

// CleanText applies character-level cleanup to one recognized string:
// unicode NFC, zero-width character removal, whitespace trim.
func CleanText(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			// zero-width OCR noise
		case '\u00A0', '\u2009':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// matchesPhrase reports a case-insensitive exact match against a phrase list.
func matchesPhrase(line string, phrases []string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	if l == "" {
		return false
	}
	for _, p := range phrases {
		if l == strings.ToLower(p) {
			return true
		}
	}
	return false
}

// fixZeroConfusion rewrites a capital O adjacent to a digit into a zero
// ("10O g" -> "100 g"). A single left-to-right pass so that repaired digits
// carry the correction through runs ("1OO" -> "100").
func fixZeroConfusion(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r != 'O' {
			continue
		}
		prevDigit := i > 0 && unicode.IsDigit(runes[i-1])
		nextDigit := i+1 < len(runes) && unicode.IsDigit(runes[i+1])
		if prevDigit || nextDigit {
			runes[i] = '0'
		}
	}
	return string(runes)
}
