package extract

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/AntoC-dev/recipelens/internal/fuzzy"
	"github.com/AntoC-dev/recipelens/internal/terms"
)

// energyKey is the catalog key that fans out into kcal and kJ entries.
const energyKey = "energy"

// nutritionValueRe matches a cleaned value line like "12,5 g" or "250 kcal".
var nutritionValueRe = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)\s*([A-Za-zµ%]*)$`)

// maxNutritionValue bounds plausible per-100g readings; anything above is a
// recognition artifact.
const maxNutritionValue = 10000

type nutritionValue struct {
	value float64
	unit  string
}

// ParseNutrition reads a per-100g nutrition table from recognized lines.
// The "per 100 g" phrase anchors the layout: labels sit before it, values
// after it, paired positionally. Tables that cannot be paired safely yield
// an empty record and a warning instead of guessed numbers, so re-running
// on the same input converges.
func ParseNutrition(lines []string, cat *terms.Catalog, m fuzzy.Matcher, h Heuristics) (NutritionRecord, []string) {
	record := NutritionRecord{}
	if cat == nil || len(lines) == 0 {
		return record, nil
	}

	anchorStart, anchorEnd := findAnchor(lines, cat, m, h)
	if anchorStart < 0 {
		return record, []string{"nutrition: no per-100g anchor found"}
	}

	labels := collectLabels(lines[:anchorStart], cat, m, h)
	if len(labels) == 0 {
		labels = collectLabels(lines[anchorEnd:], cat, m, h)
	}
	labels = duplicateSingleEnergy(labels)
	if len(labels) == 0 {
		return record, []string{"nutrition: no labels recognized"}
	}

	var candidates []string
	for _, line := range lines[anchorEnd:] {
		if m.IsMatch(line, cat.PerPortion, h.AnchorSimilarity) {
			break
		}
		if labelFor(line, cat, m, h) != "" {
			continue
		}
		candidates = append(candidates, line)
	}

	if len(candidates) < len(labels) {
		return record, []string{fmt.Sprintf(
			"nutrition: %d labels but only %d values, refusing to pair", len(labels), len(candidates))}
	}
	candidates = candidates[:len(labels)]

	// Pair positionally first, then judge each value on its own. A bad value
	// costs only its own key; the siblings keep their slots.
	var warnings []string
	var energies []nutritionValue
	for i, label := range labels {
		v, ok, reason := parseNutritionValue(candidates[i])
		if !ok {
			if reason == "" {
				reason = fmt.Sprintf("nutrition: unreadable value %q dropped", candidates[i])
			}
			warnings = append(warnings, reason)
			continue
		}
		if label == energyKey {
			energies = append(energies, v)
			continue
		}
		record[NutritionKey(label)] = v.value
	}
	resolveEnergy(record, energies)
	return record, warnings
}

// findAnchor locates the smallest run of consecutive lines whose joined text
// matches the per-100g phrase. Small windows win so a lone "per 100 g" line
// is not absorbed into its neighbors.
func findAnchor(lines []string, cat *terms.Catalog, m fuzzy.Matcher, h Heuristics) (int, int) {
	for w := 1; w <= h.AnchorMergeWindow; w++ {
		for start := 0; start+w <= len(lines); start++ {
			joined := strings.Join(lines[start:start+w], " ")
			if m.IsMatch(joined, cat.PerHundredGrams, h.AnchorSimilarity) {
				return start, start + w
			}
		}
	}
	return -1, -1
}

func collectLabels(lines []string, cat *terms.Catalog, m fuzzy.Matcher, h Heuristics) []string {
	var labels []string
	for _, line := range lines {
		if key := labelFor(line, cat, m, h); key != "" {
			labels = append(labels, key)
		}
	}
	return labels
}

// labelFor maps a line to its nutrition catalog key, or "".
func labelFor(line string, cat *terms.Catalog, m fuzzy.Matcher, h Heuristics) string {
	keys := make([]string, 0, len(cat.NutritionLabels))
	for k := range cat.NutritionLabels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m.IsMatch(line, cat.NutritionLabels[k], h.LabelSimilarity) {
			return k
		}
	}
	return ""
}

// duplicateSingleEnergy doubles a lone energy label. Printed tables state
// energy once but list both the kcal and the kJ reading, so one label has
// to consume two values.
func duplicateSingleEnergy(labels []string) []string {
	count := 0
	for _, l := range labels {
		if l == energyKey {
			count++
		}
	}
	if count != 1 {
		return labels
	}
	out := make([]string, 0, len(labels)+1)
	for _, l := range labels {
		out = append(out, l)
		if l == energyKey {
			out = append(out, energyKey)
		}
	}
	return out
}

// parseNutritionValue extracts the numeric reading from one value line.
// reason is non-empty only for lines that looked numeric but fell outside
// the plausible range.
func parseNutritionValue(line string) (nutritionValue, bool, string) {
	s := unitParenRe.ReplaceAllString(line, " ")
	s = strings.Join(strings.Fields(s), " ")
	s = fixLeadingDigitConfusion(s)

	m := nutritionValueRe.FindStringSubmatch(s)
	if m == nil {
		return nutritionValue{}, false, ""
	}
	v, ok := parseNumber(m[1])
	if !ok {
		return nutritionValue{}, false, ""
	}
	if v < 0 || v > maxNutritionValue {
		return nutritionValue{}, false, fmt.Sprintf("nutrition: implausible value %q dropped", line)
	}
	return nutritionValue{
		value: math.Round(v*100) / 100,
		unit:  strings.ToLower(m[2]),
	}, true, ""
}

// fixLeadingDigitConfusion repairs O, l and I read in place of a leading
// digit ("O,5 g" -> "0,5 g").
func fixLeadingDigitConfusion(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	switch runes[0] {
	case 'O', 'o':
		runes[0] = '0'
	case 'l', 'I':
		runes[0] = '1'
	}
	return string(runes)
}

// resolveEnergy assigns the collected energy readings to kcal and kJ. An
// explicit unit decides directly; with two unitless readings the smaller is
// the kcal one; a single unitless reading is classified by magnitude.
func resolveEnergy(record NutritionRecord, energies []nutritionValue) {
	var unitless []float64
	for _, e := range energies {
		switch e.unit {
		case "kcal", "cal":
			record[NutritionEnergyKcal] = e.value
		case "kj":
			record[NutritionEnergyKj] = e.value
		default:
			unitless = append(unitless, e.value)
		}
	}

	switch len(unitless) {
	case 0:
	case 1:
		if unitless[0] < 1000 {
			setIfAbsent(record, NutritionEnergyKcal, unitless[0])
		} else {
			setIfAbsent(record, NutritionEnergyKj, unitless[0])
		}
	default:
		a, b := unitless[0], unitless[1]
		if a > b {
			a, b = b, a
		}
		setIfAbsent(record, NutritionEnergyKcal, a)
		setIfAbsent(record, NutritionEnergyKj, b)
	}
}

func setIfAbsent(record NutritionRecord, key NutritionKey, v float64) {
	if _, ok := record[key]; !ok {
		record[key] = v
	}
}
