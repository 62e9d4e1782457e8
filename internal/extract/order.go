package extract

import "regexp"

// markerRe matches a person marker token like "2p" or "12 p".
var markerRe = regexp.MustCompile(`^(\d+)\s*[pP]$`)

// unitParenRe matches a parenthesized unit annotation inside a header line.
var unitParenRe = regexp.MustCompile(`\([^)]+\)`)

// IsPersonMarker reports whether a token is a person marker.
func IsPersonMarker(tok string) bool {
	return markerRe.MatchString(tok)
}

// SplitNamesData locates the ingredient-table boundary in a cleaned line
// list and splits it into ingredient header lines and data tokens. ok is
// false when no person marker exists and the caller should use the
// no-header fallback.
//
// One recognizer emits table rows in visual reading order, the other in
// column-major order. A marker appearing within the first ReversalWindow
// lines while a parenthesized unit shows up later means the data column came
// first, so the split is reversed. This single check disambiguates both
// layouts without platform detection.
func SplitNamesData(lines []string, h Heuristics) (names, data []string, ok bool) {
	boundary := -1
	for i, l := range lines {
		if IsPersonMarker(l) {
			boundary = i
			break
		}
	}
	if boundary < 0 {
		return nil, nil, false
	}

	if boundary < h.ReversalWindow {
		for j := boundary + 1; j < len(lines); j++ {
			if unitParenRe.MatchString(lines[j]) {
				return lines[j:], lines[boundary:j], true
			}
		}
	}
	return lines[:boundary], lines[boundary:], true
}
