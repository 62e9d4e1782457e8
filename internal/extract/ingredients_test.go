package extract

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredientHeader(t *testing.T) {
	tests := []struct {
		line string
		want IngredientRecord
	}{
		{"Flour (g)", IngredientRecord{Name: "Flour", Unit: "g"}},
		{"Olive oil (ml) (extra virgin)", IngredientRecord{Name: "Olive oil", Unit: "ml", Note: "extra virgin"}},
		{"Salt", IngredientRecord{Name: "Salt"}},
		{"Eggs (pcs) (large) (organic)", IngredientRecord{Name: "Eggs", Unit: "pcs", Note: "large, organic"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseIngredientHeader(tt.line), tt.line)
	}
}

func TestReconstructIngredients(t *testing.T) {
	h := DefaultHeuristics()

	t.Run("two serving columns", func(t *testing.T) {
		names := []string{"Flour (g)", "Sugar (g)"}
		data := []string{"2p", "200", "100", "4p", "400", "200"}

		got, warnings := ReconstructIngredients(names, data, h)
		require.Empty(t, warnings)
		require.Len(t, got, 2)

		assert.Equal(t, "Flour", got[0].Name)
		assert.Equal(t, []ServingQuantity{{2, "200"}, {4, "400"}}, got[0].QuantityPerServings)
		assert.Equal(t, "Sugar", got[1].Name)
		assert.Equal(t, []ServingQuantity{{2, "100"}, {4, "200"}}, got[1].QuantityPerServings)
	})

	t.Run("merged header line repaired", func(t *testing.T) {
		names := []string{"Dark", "chocolate (g)", "Sugar (g)"}
		data := []string{"2p", "200", "100"}

		got, warnings := ReconstructIngredients(names, data, h)
		require.Empty(t, warnings)
		require.Len(t, got, 2)

		assert.Equal(t, "Dark chocolate", got[0].Name)
		assert.Equal(t, "g", got[0].Unit)
		assert.Equal(t, []ServingQuantity{{2, "200"}}, got[0].QuantityPerServings)
		assert.Equal(t, []ServingQuantity{{2, "100"}}, got[1].QuantityPerServings)
	})

	t.Run("unrecoverable later column dropped", func(t *testing.T) {
		names := []string{"Flour (g)", "Sugar (g)"}
		data := []string{"2p", "200", "100", "4p", "400"}

		got, warnings := ReconstructIngredients(names, data, h)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "4p")
		require.Len(t, got, 2)
		assert.Equal(t, []ServingQuantity{{2, "200"}}, got[0].QuantityPerServings)
		assert.Equal(t, []ServingQuantity{{2, "100"}}, got[1].QuantityPerServings)
	})

	t.Run("no names", func(t *testing.T) {
		got, warnings := ReconstructIngredients(nil, []string{"2p", "200"}, h)
		assert.Nil(t, got)
		assert.NotEmpty(t, warnings)
	})
}

func TestReconstructIngredientsMarkerOrderInvariance(t *testing.T) {
	h := DefaultHeuristics()
	names := []string{"Flour (g)", "Sugar (g)"}

	ascending := []string{"2p", "100", "50", "4p", "200", "100"}
	shuffled := []string{"4p", "200", "100", "2p", "100", "50"}

	a, _ := ReconstructIngredients(names, ascending, h)
	b, _ := ReconstructIngredients(names, shuffled, h)

	sortColumns := func(recs []IngredientRecord) {
		for i := range recs {
			qs := recs[i].QuantityPerServings
			sort.Slice(qs, func(x, y int) bool { return qs[x].Servings < qs[y].Servings })
		}
	}
	sortColumns(a)
	sortColumns(b)
	assert.Equal(t, a, b)
}

func TestFallbackIngredients(t *testing.T) {
	t.Run("names first", func(t *testing.T) {
		got := FallbackIngredients([]string{"Flour", "Sugar", "200 g", "100 g"})
		require.Len(t, got, 2)
		assert.Equal(t, IngredientRecord{
			Name: "Flour", Unit: "g",
			QuantityPerServings: []ServingQuantity{{UnknownServings, "200"}},
		}, got[0])
		assert.Equal(t, IngredientRecord{
			Name: "Sugar", Unit: "g",
			QuantityPerServings: []ServingQuantity{{UnknownServings, "100"}},
		}, got[1])
	})

	t.Run("data first", func(t *testing.T) {
		got := FallbackIngredients([]string{"200 g", "100 g", "Flour", "Sugar"})
		require.Len(t, got, 2)
		assert.Equal(t, "Flour", got[0].Name)
		assert.Equal(t, "200", got[0].QuantityPerServings[0].Quantity)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, FallbackIngredients(nil))
	})
}

func TestStartsWithDigit(t *testing.T) {
	assert.True(t, startsWithDigit("200 g"))
	assert.False(t, startsWithDigit("Flour"))
	assert.False(t, startsWithDigit("Œufs"))
	assert.False(t, startsWithDigit(""))
}
