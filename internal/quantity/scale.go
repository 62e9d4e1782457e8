// Package quantity rescales quantity strings between serving counts. It is a
// pure leaf package so the extraction dispatcher can consume it behind a
// function value.
package quantity

import (
	"strconv"
	"strings"
	"unicode"
)

// Scale rescales the leading numeric part of a quantity string from one
// serving count to another, preserving any trailing unit text and the
// original decimal separator. Non-numeric quantities and invalid serving
// counts pass through unchanged.
func Scale(q string, from, to int) string {
	if from <= 0 || to <= 0 || from == to {
		return q
	}
	num, rest, ok := splitLeadingNumber(q)
	if !ok {
		return q
	}
	scaled := num * float64(to) / float64(from)
	out := formatNumber(scaled)
	if strings.Contains(q, ",") && !strings.Contains(q, ".") {
		out = strings.ReplaceAll(out, ".", ",")
	}
	return out + rest
}

// splitLeadingNumber cuts a leading decimal number (comma or dot separator)
// off the string and returns it with the remainder.
func splitLeadingNumber(s string) (float64, string, bool) {
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
			end = i + 1
			continue
		}
		break
	}
	if end == 0 {
		return 0, s, false
	}
	numText := strings.TrimSuffix(strings.TrimSuffix(trimmed[:end], "."), ",")
	v, err := strconv.ParseFloat(strings.ReplaceAll(numText, ",", "."), 64)
	if err != nil {
		return 0, s, false
	}
	return v, trimmed[end:], true
}

// formatNumber renders a scaled value with at most two decimals, trimming
// trailing zeros.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
