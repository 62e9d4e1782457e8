package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AntoC-dev/recipelens/internal/fuzzy"
	"github.com/AntoC-dev/recipelens/internal/quantity"
	"github.com/AntoC-dev/recipelens/internal/recognizer"
	"github.com/AntoC-dev/recipelens/internal/terms"
)

// ScaleFunc converts a quantity string from one serving count to another.
type ScaleFunc func(q string, from, to int) string

// Extractor dispatches one image region to the parser for the requested
// field and merges the result into the caller's recipe state. It holds no
// state of its own between calls.
type Extractor struct {
	engine recognizer.Engine
	terms  terms.Provider
	match  fuzzy.Matcher
	scale  ScaleFunc
	heur   Heuristics
	lang   string
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLanguage sets the default term-catalog language.
func WithLanguage(lang string) Option {
	return func(e *Extractor) { e.lang = lang }
}

// WithHeuristics overrides the tuned parser thresholds.
func WithHeuristics(h Heuristics) Option {
	return func(e *Extractor) { e.heur = h }
}

// WithMatcher overrides the fuzzy matcher.
func WithMatcher(m fuzzy.Matcher) Option {
	return func(e *Extractor) { e.match = m }
}

// WithScaleFunc overrides the quantity scaling function.
func WithScaleFunc(f ScaleFunc) Option {
	return func(e *Extractor) { e.scale = f }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor builds an Extractor around a recognition engine and a term
// catalog provider.
func NewExtractor(engine recognizer.Engine, provider terms.Provider, opts ...Option) *Extractor {
	e := &Extractor{
		engine: engine,
		terms:  provider,
		match:  fuzzy.NewMatcher(),
		scale:  quantity.Scale,
		heur:   DefaultHeuristics(),
		lang:   "en",
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract recognizes the image and parses the requested field. lang ""
// falls back to the configured default. Recognition failures are logged and
// produce an empty patch; warnings report content that was recognized but
// did not fit the field's shape.
func (e *Extractor) Extract(ctx context.Context, image []byte, field FieldKind, lang string, st State) (Patch, []string) {
	if lang == "" {
		lang = e.lang
	}
	doc, err := e.engine.Recognize(ctx, image)
	if err != nil {
		e.logger.Warn("recognition failed", "field", field, "error", err)
		return Patch{}, nil
	}
	return e.Parse(doc, field, lang, st)
}

// Parse runs the field parser against an already-recognized document.
func (e *Extractor) Parse(doc *recognizer.Document, field FieldKind, lang string, st State) (Patch, []string) {
	if lang == "" {
		lang = e.lang
	}
	if doc == nil || doc.Empty() {
		return Patch{}, nil
	}
	cat, _ := e.terms.Catalog(lang)

	switch field {
	case FieldTitle:
		return e.parseTitle(doc)
	case FieldDescription:
		return e.parseDescription(doc)
	case FieldPersons:
		return e.parsePersons(doc)
	case FieldTime:
		return e.parseTime(doc)
	case FieldPreparation:
		return e.parsePreparation(doc, st)
	case FieldIngredients:
		return e.parseIngredients(doc, cat, st)
	case FieldTags:
		return e.parseTags(doc, st)
	case FieldNutrition:
		return e.parseNutrition(doc, cat)
	default:
		return Patch{}, []string{fmt.Sprintf("unknown field %q", field)}
	}
}

func (e *Extractor) parseTitle(doc *recognizer.Document) (Patch, []string) {
	for _, line := range doc.Lines() {
		t := CleanText(line)
		if t != "" {
			return Patch{Title: &t}, nil
		}
	}
	return Patch{}, []string{"title: no text recognized"}
}

func (e *Extractor) parseDescription(doc *recognizer.Document) (Patch, []string) {
	var parts []string
	for _, block := range doc.BlockTexts() {
		b := CleanText(block)
		if b != "" {
			parts = append(parts, b)
		}
	}
	if len(parts) == 0 {
		return Patch{}, []string{"description: no text recognized"}
	}
	d := strings.Join(parts, "\n\n")
	return Patch{Description: &d}, nil
}

func (e *Extractor) parsePersons(doc *recognizer.Document) (Patch, []string) {
	text := doc.Text()
	switch sc := ParseScalar(text); sc.Kind {
	case ScalarNumber:
		p := int(sc.Number)
		return Patch{Persons: &p}, nil
	case ScalarPersonsTime:
		p := sc.Pairs[0].Persons
		t := sc.Pairs[0].Minutes
		return Patch{Persons: &p, TimeMinutes: &t}, nil
	case ScalarNumberList:
		// Several numbers on the card; the first is the one displayed most
		// prominently.
		p := int(sc.Numbers[0])
		return Patch{Persons: &p}, nil
	default:
		return Patch{}, []string{fmt.Sprintf("persons: no number in %q", text)}
	}
}

func (e *Extractor) parseTime(doc *recognizer.Document) (Patch, []string) {
	text := doc.Text()
	switch sc := ParseScalar(text); sc.Kind {
	case ScalarNumber:
		t := int(sc.Number)
		return Patch{TimeMinutes: &t}, nil
	case ScalarPersonsTime:
		p := sc.Pairs[0].Persons
		t := sc.Pairs[0].Minutes
		return Patch{Persons: &p, TimeMinutes: &t}, nil
	case ScalarNumberList:
		t := int(sc.Numbers[0])
		return Patch{TimeMinutes: &t}, nil
	default:
		return Patch{}, []string{fmt.Sprintf("time: no number in %q", text)}
	}
}

func (e *Extractor) parsePreparation(doc *recognizer.Document, st State) (Patch, []string) {
	blocks := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.BlockTexts() {
		blocks = append(blocks, CleanText(b))
	}
	steps := SegmentSteps(blocks)
	if len(steps) == 0 {
		return Patch{}, []string{"preparation: no steps recognized"}
	}
	merged := append(append([]PreparationStep{}, st.Preparation...), steps...)
	return Patch{Preparation: merged}, nil
}

func (e *Extractor) parseIngredients(doc *recognizer.Document, cat *terms.Catalog, st State) (Patch, []string) {
	lines := NormalizeLines(doc.Lines(), cat)
	if len(lines) == 0 {
		return Patch{}, []string{"ingredients: no text recognized"}
	}

	var records []IngredientRecord
	var warnings []string
	if names, data, ok := SplitNamesData(lines, e.heur); ok {
		records, warnings = ReconstructIngredients(names, data, e.heur)
	} else {
		records = FallbackIngredients(lines)
	}
	if len(records) == 0 {
		warnings = append(warnings, "ingredients: nothing reconstructed")
		return Patch{}, warnings
	}

	converted := e.convertIngredients(records, st.Servings)
	merged := append(append([]RecipeIngredient{}, st.Ingredients...), converted...)
	return Patch{Ingredients: merged, Table: records}, warnings
}

// convertIngredients picks the serving-size column matching the target
// count, or scales the first column when no exact match exists. Unknown
// serving counts pass through unscaled.
func (e *Extractor) convertIngredients(records []IngredientRecord, target int) []RecipeIngredient {
	out := make([]RecipeIngredient, 0, len(records))
	for _, r := range records {
		ri := RecipeIngredient{Name: r.Name, Unit: r.Unit, Note: r.Note}
		if len(r.QuantityPerServings) > 0 {
			sq := r.QuantityPerServings[0]
			for _, cand := range r.QuantityPerServings {
				if cand.Servings == target {
					sq = cand
					break
				}
			}
			ri.Quantity = sq.Quantity
			if sq.Servings != target && sq.Servings != UnknownServings && target > 0 {
				ri.Quantity = e.scale(sq.Quantity, sq.Servings, target)
			}
		}
		out = append(out, ri)
	}
	return out
}

func (e *Extractor) parseTags(doc *recognizer.Document, st State) (Patch, []string) {
	seen := make(map[string]bool, len(st.Tags))
	for _, t := range st.Tags {
		seen[strings.ToLower(t)] = true
	}

	merged := append([]string{}, st.Tags...)
	for _, line := range doc.Lines() {
		for _, part := range strings.Split(line, ",") {
			tag := CleanText(part)
			if tag == "" || seen[strings.ToLower(tag)] {
				continue
			}
			seen[strings.ToLower(tag)] = true
			merged = append(merged, tag)
		}
	}
	if len(merged) == len(st.Tags) {
		return Patch{}, []string{"tags: nothing new recognized"}
	}
	return Patch{Tags: merged}, nil
}

func (e *Extractor) parseNutrition(doc *recognizer.Document, cat *terms.Catalog) (Patch, []string) {
	if cat == nil {
		return Patch{Nutrition: NutritionRecord{}}, []string{"nutrition: no term catalog for language"}
	}
	lines := make([]string, 0, 16)
	for _, l := range doc.Lines() {
		if c := CleanText(l); c != "" {
			lines = append(lines, c)
		}
	}
	record, warnings := ParseNutrition(lines, cat, e.match, e.heur)
	return Patch{Nutrition: record}, warnings
}
