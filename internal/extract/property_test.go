package extract

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/AntoC-dev/recipelens/internal/quantity"
)

// buildTableData renders serving-size columns as data lines in the given
// column order.
func buildTableData(persons []int, quantities map[int][]string) []string {
	var data []string
	for _, p := range persons {
		data = append(data, fmt.Sprintf("%dp", p))
		data = append(data, quantities[p]...)
	}
	return data
}

// TestReconstructIngredients_ColumnOrderInvariance verifies that shuffling
// whole serving-size columns never changes the reconstructed table.
func TestReconstructIngredients_ColumnOrderInvariance(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("column order does not change the result", prop.ForAll(
		func(n, cols int, seed int64) bool {
			if n < 1 || n > 5 || cols < 2 || cols > 4 {
				return true
			}
			rng := rand.New(rand.NewSource(seed))

			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("Item%c (g)", 'A'+i)
			}

			persons := make([]int, cols)
			quantities := make(map[int][]string, cols)
			for c := range persons {
				persons[c] = (c + 1) * 2
				qs := make([]string, n)
				for i := range qs {
					qs[i] = fmt.Sprintf("%d", rng.Intn(999)+11)
				}
				quantities[persons[c]] = qs
			}

			shuffled := append([]int{}, persons...)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			h := DefaultHeuristics()
			a, _ := ReconstructIngredients(names, buildTableData(persons, quantities), h)
			b, _ := ReconstructIngredients(names, buildTableData(shuffled, quantities), h)

			normalize := func(recs []IngredientRecord) {
				for i := range recs {
					qs := recs[i].QuantityPerServings
					sort.Slice(qs, func(x, y int) bool { return qs[x].Servings < qs[y].Servings })
				}
			}
			normalize(a)
			normalize(b)

			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i].Name != b[i].Name || len(a[i].QuantityPerServings) != len(b[i].QuantityPerServings) {
					return false
				}
				for j := range a[i].QuantityPerServings {
					if a[i].QuantityPerServings[j] != b[i].QuantityPerServings[j] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 5),
		gen.IntRange(2, 4),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// TestScale_Identity verifies scaling to the same serving count is a no-op
// for arbitrary quantity strings.
func TestScale_Identity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("scaling n to n returns the input", prop.ForAll(
		func(q string, n int) bool {
			if n < 1 || n > 12 {
				return true
			}
			return quantity.Scale(q, n, n) == q
		},
		gen.AnyString(),
		gen.IntRange(1, 12),
	))

	properties.Property("integer quantities scale exactly by whole factors", prop.ForAll(
		func(v, factor, from int) bool {
			if v < 1 || v > 1000 || factor < 2 || factor > 5 || from < 1 || from > 6 {
				return true
			}
			q := fmt.Sprintf("%d g", v)
			scaled := quantity.Scale(q, from, from*factor)
			return scaled == fmt.Sprintf("%d g", v*factor)
		},
		gen.IntRange(1, 1000),
		gen.IntRange(2, 5),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
