package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

	// personsTimeRe matches pairings like "2 pers. 30 min",
	// "4 personnes - 35 min" or "2p / 20 mn".
	personsTimeRe = regexp.MustCompile(`(?i)(\d+)\s*p[a-zà-ÿ.]*\s*\W*\s*(\d+)\s*(?:min|mn)`)
)

// ParseScalar extracts numeric content from a short text fragment. Pairings
// of persons and time win over bare numbers; a single number and a number
// list are distinguished by count.
func ParseScalar(text string) Scalar {
	if pairs := parsePersonsTime(text); len(pairs) > 0 {
		return Scalar{Kind: ScalarPersonsTime, Pairs: pairs}
	}

	matches := numberRe.FindAllString(text, -1)
	switch len(matches) {
	case 0:
		return Scalar{Kind: ScalarNone}
	case 1:
		v, ok := parseNumber(matches[0])
		if !ok {
			return Scalar{Kind: ScalarNone}
		}
		return Scalar{Kind: ScalarNumber, Number: v}
	default:
		nums := make([]float64, 0, len(matches))
		for _, m := range matches {
			if v, ok := parseNumber(m); ok {
				nums = append(nums, v)
			}
		}
		if len(nums) == 1 {
			return Scalar{Kind: ScalarNumber, Number: nums[0]}
		}
		return Scalar{Kind: ScalarNumberList, Numbers: nums}
	}
}

func parsePersonsTime(text string) []PersonsTime {
	var pairs []PersonsTime
	for _, m := range personsTimeRe.FindAllStringSubmatch(text, -1) {
		persons, err1 := strconv.Atoi(m[1])
		minutes, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		pairs = append(pairs, PersonsTime{Persons: persons, Minutes: minutes})
	}
	return pairs
}

// parseNumber parses a decimal with either comma or dot separator.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LeadingNumber parses the number a quantity token starts with
// ("2,5 cups" -> 2.5). ok is false when the token has no leading number.
func LeadingNumber(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	end := 0
	seenSep := false
	for i, r := range trimmed {
		if unicode.IsDigit(r) {
			end = i + 1
			continue
		}
		if (r == '.' || r == ',') && !seenSep && end > 0 {
			seenSep = true
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	return parseNumber(trimmed[:end])
}
