package extract

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// group is a transient aggregation of one serving-size column: the person
// marker it belongs to and its quantities aligned positionally to the
// ingredient headers.
type group struct {
	persons    int
	quantities []string
}

// ReconstructIngredients rebuilds the 2-D ingredient x serving-size grid
// from cleaned header lines and data tokens. It never fails; unrecoverable
// serving-size columns are dropped and reported as warnings.
func ReconstructIngredients(names, data []string, h Heuristics) ([]IngredientRecord, []string) {
	ingredients := make([]IngredientRecord, 0, len(names))
	for _, n := range names {
		ingredients = append(ingredients, parseIngredientHeader(n))
	}
	if len(ingredients) == 0 {
		return nil, []string{"ingredients: no header lines before marker boundary"}
	}

	groups := buildGroups(data, len(ingredients))
	ingredients, groups, warnings := correctSuspicious(ingredients, groups, h)

	for gi := range groups {
		quantities := fitLength(groups[gi].quantities, len(ingredients))
		for i := range ingredients {
			ingredients[i].QuantityPerServings = append(ingredients[i].QuantityPerServings, ServingQuantity{
				Servings: groups[gi].persons,
				Quantity: quantities[i],
			})
		}
	}
	return ingredients, warnings
}

// parseIngredientHeader splits "Name (unit) (note...)" into its parts: the
// first parenthesized group is the unit, later groups join into the note,
// and the remainder is the name.
func parseIngredientHeader(line string) IngredientRecord {
	var unit string
	var notes []string
	for i, m := range unitParenRe.FindAllString(line, -1) {
		inner := strings.TrimSpace(strings.Trim(m, "()"))
		if i == 0 {
			unit = inner
		} else {
			notes = append(notes, inner)
		}
	}
	name := strings.Join(strings.Fields(unitParenRe.ReplaceAllString(line, " ")), " ")
	return IngredientRecord{
		Name: name,
		Unit: unit,
		Note: strings.Join(notes, ", "),
	}
}

// tokenizeData flattens data lines into marker and quantity tokens. A line
// matching the marker pattern is one marker token; any other line splits at
// internal spaces into quantity tokens.
func tokenizeData(lines []string) []string {
	var tokens []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if IsPersonMarker(l) {
			tokens = append(tokens, l)
			continue
		}
		tokens = append(tokens, strings.Fields(l)...)
	}
	return tokens
}

// buildGroups groups quantity tokens under their person markers. When the
// recognizer moved a marker column out of ascending order, quantities are
// re-sliced from the flattened stream at the marker's stream position;
// otherwise groups accumulate sequentially, zero-padded to the ingredient
// count when a new marker closes them.
func buildGroups(data []string, n int) []group {
	tokens := tokenizeData(data)

	var markers []int
	var quantities []string
	for _, tok := range tokens {
		if m := markerRe.FindStringSubmatch(tok); m != nil {
			persons, _ := strconv.Atoi(m[1])
			markers = append(markers, persons)
		} else if len(markers) > 0 {
			quantities = append(quantities, tok)
		}
	}
	if len(markers) == 0 {
		return nil
	}

	if !sort.IntsAreSorted(markers) {
		return redistributeGroups(markers, quantities, n)
	}
	return sequentialGroups(tokens, n)
}

// sequentialGroups closes a group at each marker token, padding short groups
// with empty quantities.
func sequentialGroups(tokens []string, n int) []group {
	var groups []group
	var current *group
	for _, tok := range tokens {
		if m := markerRe.FindStringSubmatch(tok); m != nil {
			if current != nil {
				current.quantities = fitLength(current.quantities, n)
				groups = append(groups, *current)
			}
			persons, _ := strconv.Atoi(m[1])
			current = &group{persons: persons}
			continue
		}
		if current != nil {
			current.quantities = append(current.quantities, tok)
		}
	}
	if current != nil {
		current.quantities = fitLength(current.quantities, n)
		groups = append(groups, *current)
	}
	return groups
}

// redistributeGroups reassigns quantities when markers arrived out of
// ascending order: each marker owns the n quantities at its position in the
// flattened quantity stream.
func redistributeGroups(markers []int, quantities []string, n int) []group {
	groups := make([]group, 0, len(markers))
	for pos, persons := range markers {
		start := pos * n
		var qs []string
		if start < len(quantities) {
			end := start + n
			if end > len(quantities) {
				end = len(quantities)
			}
			qs = append(qs, quantities[start:end]...)
		}
		groups = append(groups, group{persons: persons, quantities: fitLength(qs, n)})
	}
	return groups
}

// fitLength pads with empty strings or truncates so len(qs) == n. Always
// returns a fresh slice.
func fitLength(qs []string, n int) []string {
	out := make([]string, n)
	copy(out, qs)
	return out
}

// suspiciousIndex returns the first suspicious quantity index in the group,
// or -1. A quantity is suspicious when it is empty, or when its ingredient
// carries no unit and the value exceeds the threshold, which usually means
// two header lines were merged by the recognizer.
func suspiciousIndex(ingredients []IngredientRecord, quantities []string, h Heuristics) int {
	for i := range ingredients {
		if i >= len(quantities) {
			return i
		}
		if isSuspicious(ingredients[i], quantities[i], h) {
			return i
		}
	}
	return -1
}

func isSuspicious(ing IngredientRecord, q string, h Heuristics) bool {
	if strings.TrimSpace(q) == "" {
		return true
	}
	if ing.Unit != "" {
		return false
	}
	v, ok := LeadingNumber(q)
	return ok && v > h.SuspicionThreshold
}

// correctSuspicious repairs merged-header damage. While the first group has
// a fixable suspicious entry at index i, ingredients i and i+1 merge into
// one and every group is re-cut to the reduced count; the re-cut is what
// discards the stray padding entry. Groups after the first that remain
// suspicious are dropped rather than guessed at. The input slices are owned
// by this routine; fresh trimmed slices are returned.
func correctSuspicious(ingredients []IngredientRecord, groups []group, h Heuristics) ([]IngredientRecord, []group, []string) {
	var warnings []string
	if len(groups) == 0 || len(ingredients) == 0 {
		return ingredients, groups, warnings
	}

	recut := func() {
		for gi := range groups {
			groups[gi].quantities = fitLength(groups[gi].quantities, len(ingredients))
		}
	}
	recut()

	for {
		i := suspiciousIndex(ingredients, groups[0].quantities, h)
		if i < 0 {
			break
		}
		if i >= len(ingredients)-1 {
			warnings = append(warnings, fmt.Sprintf(
				"ingredients: unfixable suspicious quantity %q for %q", groups[0].quantities[i], ingredients[i].Name))
			break
		}

		merged := mergeIngredients(ingredients[i], ingredients[i+1])
		trial := make([]IngredientRecord, 0, len(ingredients)-1)
		trial = append(trial, ingredients[:i]...)
		trial = append(trial, merged)
		trial = append(trial, ingredients[i+2:]...)
		trialQ := fitLength(groups[0].quantities, len(trial))

		if introducesSuspicion(ingredients, groups[0].quantities, trial, trialQ, i, h) {
			warnings = append(warnings, fmt.Sprintf(
				"ingredients: merging %q and %q would corrupt later entries", ingredients[i].Name, ingredients[i+1].Name))
			break
		}
		ingredients = trial
		recut()
	}

	kept := groups[:1]
	for _, g := range groups[1:] {
		if suspiciousIndex(ingredients, g.quantities, h) >= 0 {
			warnings = append(warnings, fmt.Sprintf(
				"ingredients: dropped unrecoverable quantity column for %dp", g.persons))
			continue
		}
		kept = append(kept, g)
	}
	return ingredients, kept, warnings
}

// introducesSuspicion reports whether merging at index i made an entry after
// i suspicious that was clean before the merge.
func introducesSuspicion(old []IngredientRecord, oldQ []string, trial []IngredientRecord, trialQ []string, i int, h Heuristics) bool {
	for j := i + 1; j < len(trial); j++ {
		if !isSuspicious(trial[j], trialQ[j], h) {
			continue
		}
		// entry j in the trial corresponds to entry j+1 before the merge
		if j+1 < len(old) && !isSuspicious(old[j+1], oldQ[j+1], h) {
			return true
		}
	}
	return false
}

func mergeIngredients(a, b IngredientRecord) IngredientRecord {
	name := strings.TrimSpace(a.Name + " " + b.Name)
	var notes []string
	for _, n := range []string{a.Note, b.Note} {
		if n != "" {
			notes = append(notes, n)
		}
	}
	return IngredientRecord{
		Name: name,
		Unit: a.Unit + b.Unit,
		Note: strings.Join(notes, ", "),
	}
}

// FallbackIngredients parses an ingredient list that carries no person
// marker at all: names in one half, quantity+unit lines in the other,
// paired positionally with the UnknownServings sentinel.
func FallbackIngredients(lines []string) []IngredientRecord {
	if len(lines) == 0 {
		return nil
	}
	mid := len(lines) / 2
	names, data := lines[:mid], lines[mid:]
	if len(names) > 0 && startsWithDigit(names[0]) {
		names, data = data, names
	}

	n := len(names)
	if len(data) < n {
		n = len(data)
	}
	out := make([]IngredientRecord, 0, n)
	for i := 0; i < n; i++ {
		qty, unit := splitQuantityUnit(data[i])
		rec := parseIngredientHeader(names[i])
		if rec.Unit == "" {
			rec.Unit = unit
		}
		rec.QuantityPerServings = []ServingQuantity{{Servings: UnknownServings, Quantity: qty}}
		out = append(out, rec)
	}
	return out
}

func startsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}

// splitQuantityUnit cuts "200 g" into ("200", "g").
func splitQuantityUnit(s string) (string, string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
