package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Title length bounds for a line to qualify as a step title on its own.
const (
	minTitleLen = 3
	maxTitleLen = 49
)

var (
	// stepNumberRe matches a numbered step line like "2. Bake" or "3) Whisk".
	stepNumberRe = regexp.MustCompile(`^(\d+)\s*[.):]?\s*(\p{L}.*)$`)

	// bareNumberRe matches a step number the recognizer split off from its
	// title, like "1" or "2.".
	bareNumberRe = regexp.MustCompile(`^\d+\s*[.):]?$`)

	// timeExprRe guards duration fragments ("30 min", "1 h") from being
	// mistaken for numbered steps.
	timeExprRe = regexp.MustCompile(`(?i)^\d+\s*(?:min|mn|h)\b`)
)

type workingStep struct {
	order       int
	arrival     int
	title       string
	description []string
}

// SegmentSteps rebuilds ordered preparation steps from recognized text
// blocks. Step numbers the recognizer detached from their titles are parked
// in a pending queue and married to the next title-shaped block; blocks that
// are neither numbers nor titles extend the description of the open step.
// The result is sorted by the recovered step order, not by arrival order.
func SegmentSteps(blocks []string) []PreparationStep {
	var steps []workingStep
	var pending []int
	var open *workingStep
	lastOrder := 0

	closeOpen := func() {
		if open != nil {
			steps = append(steps, *open)
			open = nil
		}
	}

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		first := strings.TrimSpace(lines[0])

		if !containsLetter(block) {
			if bareNumberRe.MatchString(first) {
				pending = append(pending, leadingInt(first))
			}
			continue
		}

		if timeExprRe.MatchString(first) {
			if open != nil {
				open.description = append(open.description, lines...)
			}
			continue
		}

		if m := stepNumberRe.FindStringSubmatch(first); m != nil {
			closeOpen()
			lastOrder = leadingInt(m[1])
			open = &workingStep{
				order:       lastOrder,
				arrival:     len(steps),
				title:       strings.TrimSpace(m[2]),
				description: trimLines(lines[1:]),
			}
			continue
		}

		if len(lines) == 1 && isTitleShaped(first) && len(pending) > 0 {
			closeOpen()
			lastOrder = popSmallest(&pending)
			open = &workingStep{order: lastOrder, arrival: len(steps), title: first}
			continue
		}

		if open != nil {
			open.description = append(open.description, trimLines(lines)...)
			continue
		}

		// Stray prose with neither number nor open step keeps its arrival
		// position.
		lastOrder++
		open = &workingStep{
			order:       lastOrder,
			arrival:     len(steps),
			title:       first,
			description: trimLines(lines[1:]),
		}
		closeOpen()
	}
	closeOpen()

	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].order != steps[j].order {
			return steps[i].order < steps[j].order
		}
		return steps[i].arrival < steps[j].arrival
	})

	out := make([]PreparationStep, 0, len(steps))
	for _, s := range steps {
		out = append(out, PreparationStep{
			Title:       titleCase(s.title),
			Description: lowerFirst(strings.Join(s.description, "\n")),
		})
	}
	return out
}

// isTitleShaped reports whether a lone line reads like a step title:
// short, capitalized, free of digits and not sentence-terminated.
func isTitleShaped(line string) bool {
	n := len([]rune(line))
	if n < minTitleLen || n > maxTitleLen {
		return false
	}
	if strings.HasSuffix(line, ".") {
		return false
	}
	for _, r := range line {
		if unicode.IsDigit(r) {
			return false
		}
	}
	first := []rune(line)[0]
	return unicode.IsUpper(first)
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func leadingInt(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsDigit(r) {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func popSmallest(pending *[]int) int {
	idx := 0
	for i, v := range *pending {
		if v < (*pending)[idx] {
			idx = i
		}
	}
	v := (*pending)[idx]
	*pending = append((*pending)[:idx], (*pending)[idx+1:]...)
	return v
}

func trimLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// titleCase renders a step title with an initial capital and the rest
// lowered, smoothing over all-caps recognizer output.
func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
