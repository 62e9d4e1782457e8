package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Distance("energy", "energy"))
	assert.Equal(t, 1, Distance("energy", "enargy"))
	assert.Equal(t, 3, Distance("kitten", "sitting"))
	assert.Equal(t, 5, Distance("", "salts"))
	assert.Equal(t, 2, Distance("ab", ""))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("sel", "sel"), 1e-9)
	// one substitution in a six letter word
	assert.InDelta(t, 5.0/6.0, Similarity("energy", "enargy"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
}

func TestIsMatch(t *testing.T) {
	m := NewMatcher()
	terms := []string{"pour 100 g", "per 100 g"}

	assert.True(t, m.IsMatch("pour 100 g", terms, 0.8))
	// OCR noise: dropped space and substituted letter
	assert.True(t, m.IsMatch("pour 100g", terms, 0.8))
	assert.True(t, m.IsMatch("POUR  100 G", terms, 0.8))
	assert.False(t, m.IsMatch("per portion", terms, 0.8))
	assert.False(t, m.IsMatch("", terms, 0.5))
}

func TestIsMatch_CollapsesWhitespace(t *testing.T) {
	m := NewMatcher()
	assert.True(t, m.IsMatch("matières   grasses", []string{"matières grasses"}, 0.9))
}
