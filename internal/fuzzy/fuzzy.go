package fuzzy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Matcher decides whether a candidate string approximately matches any term
// in a list. The concrete similarity algorithm is an implementation detail;
// callers only depend on this interface.
type Matcher interface {
	// IsMatch reports whether candidate matches at least one term with a
	// similarity of at least threshold (0..1, 1 = exact).
	IsMatch(candidate string, terms []string, threshold float64) bool
}

// LevenshteinMatcher matches strings by normalized edit distance.
type LevenshteinMatcher struct{}

// NewMatcher returns the default matcher.
func NewMatcher() Matcher { return LevenshteinMatcher{} }

var spaceRe = regexp.MustCompile(`\s+`)

// normalize lowercases and collapses whitespace so OCR spacing noise does not
// dominate the distance.
func normalize(s string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// IsMatch reports whether candidate is within threshold similarity of any term.
func (LevenshteinMatcher) IsMatch(candidate string, terms []string, threshold float64) bool {
	cand := normalize(candidate)
	if cand == "" {
		return false
	}
	for _, t := range terms {
		if Similarity(cand, normalize(t)) >= threshold {
			return true
		}
	}
	return false
}

// Similarity returns 1 - dist/maxLen for two strings, in [0, 1].
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(Distance(a, b))/float64(longest)
}

// Distance computes the Levenshtein edit distance between two strings using
// two rolling rows.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
