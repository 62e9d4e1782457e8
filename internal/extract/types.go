// Package extract reconstructs typed recipe fields from the unlabeled
// block/line output of a text-recognition engine. All parsing is pure and
// synchronous; the only blocking operation is the recognition call performed
// by the dispatcher.
package extract

// FieldKind identifies which recipe field an extraction call targets.
type FieldKind string

// Supported field kinds.
const (
	FieldTitle       FieldKind = "title"
	FieldDescription FieldKind = "description"
	FieldPersons     FieldKind = "persons"
	FieldTime        FieldKind = "time"
	FieldPreparation FieldKind = "preparation"
	FieldIngredients FieldKind = "ingredients"
	FieldTags        FieldKind = "tags"
	FieldNutrition   FieldKind = "nutrition"
)

// AllFields lists every field kind in presentation order.
func AllFields() []FieldKind {
	return []FieldKind{
		FieldTitle, FieldDescription, FieldPersons, FieldTime,
		FieldPreparation, FieldIngredients, FieldTags, FieldNutrition,
	}
}

// ValidField reports whether f names a known field kind.
func ValidField(f FieldKind) bool {
	for _, k := range AllFields() {
		if k == f {
			return true
		}
	}
	return false
}

// UnknownServings marks quantity data whose serving count could not be
// recovered (no person marker in the source).
const UnknownServings = -1

// ServingQuantity ties a quantity string to a serving count. Quantity may be
// empty when the source table had a gap; it is never meaningless filler
// invented by the parser.
type ServingQuantity struct {
	Servings int    `json:"servings"`
	Quantity string `json:"quantity"`
}

// IngredientRecord is one reconstructed ingredient row with its quantities
// per detected serving-size column, in column order.
type IngredientRecord struct {
	Name                string            `json:"name"`
	Unit                string            `json:"unit"`
	Note                string            `json:"note,omitempty"`
	QuantityPerServings []ServingQuantity `json:"quantity_per_servings"`
}

// RecipeIngredient is the caller-facing ingredient shape: one quantity,
// already converted to the caller's serving count.
type RecipeIngredient struct {
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Note     string `json:"note,omitempty"`
	Quantity string `json:"quantity"`
}

// PreparationStep is one numbered step, ordered by the numeric order
// recovered from the text rather than by arrival order.
type PreparationStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NutritionKey names one value of the nutrition record.
type NutritionKey string

// Nutrition keys, all per 100 g.
const (
	NutritionEnergyKcal    NutritionKey = "energy_kcal"
	NutritionEnergyKj      NutritionKey = "energy_kj"
	NutritionFat           NutritionKey = "fat"
	NutritionSaturatedFat  NutritionKey = "saturated_fat"
	NutritionCarbohydrates NutritionKey = "carbohydrates"
	NutritionSugars        NutritionKey = "sugars"
	NutritionFiber         NutritionKey = "fiber"
	NutritionProtein       NutritionKey = "protein"
	NutritionSalt          NutritionKey = "salt"
)

// NutritionRecord is a sparse mapping of nutrition key to value per 100 g.
type NutritionRecord map[NutritionKey]float64

// PersonsTime is one "<persons> for <minutes>" pairing found in a fragment.
type PersonsTime struct {
	Persons int `json:"persons"`
	Minutes int `json:"minutes"`
}

// ScalarKind tags the variants of Scalar.
type ScalarKind int

// Scalar variants.
const (
	ScalarNone ScalarKind = iota
	ScalarNumber
	ScalarNumberList
	ScalarPersonsTime
)

// Scalar is the closed result type of the numeric extractor: a single
// number, a list of numbers, or persons/time pairs. Exactly the fields
// selected by Kind are meaningful.
type Scalar struct {
	Kind    ScalarKind
	Number  float64
	Numbers []float64
	Pairs   []PersonsTime
}

// Patch is the union of optional outputs of one extraction call. The
// dispatcher merges it into caller-owned state; parsers never merge
// internally.
type Patch struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Persons     *int               `json:"persons,omitempty"`
	TimeMinutes *int               `json:"time_minutes,omitempty"`
	Preparation []PreparationStep  `json:"preparation,omitempty"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty"`
	Table       []IngredientRecord `json:"ingredient_table,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Nutrition   NutritionRecord    `json:"nutrition,omitempty"`
}

// State is a snapshot of the caller-owned recipe form an extraction merges
// into. The dispatcher never retains it across calls.
type State struct {
	Servings    int
	Preparation []PreparationStep
	Ingredients []RecipeIngredient
	Tags        []string
}

// Heuristics carries the empirically tuned thresholds of the parser. They
// were observed against two specific recognizer implementations and are
// configuration, not invariants.
type Heuristics struct {
	// ReversalWindow: a person marker within the first N lines combined
	// with a later parenthesized unit means column-major block order.
	ReversalWindow int
	// SuspicionThreshold: a unitless quantity above this value signals a
	// merged ingredient header.
	SuspicionThreshold float64
	// AnchorSimilarity and LabelSimilarity are the fuzzy-match thresholds
	// for the per-100g anchor and the nutrition labels.
	AnchorSimilarity float64
	LabelSimilarity  float64
	// AnchorMergeWindow bounds how many consecutive lines may be merged
	// when searching for the per-100g anchor.
	AnchorMergeWindow int
}

// DefaultHeuristics returns the tuned defaults.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		ReversalWindow:     3,
		SuspicionThreshold: 10,
		AnchorSimilarity:   0.8,
		LabelSimilarity:    0.8,
		AnchorMergeWindow:  3,
	}
}
