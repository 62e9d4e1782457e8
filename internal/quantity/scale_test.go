package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name string
		q    string
		from int
		to   int
		want string
	}{
		{"doubles integer", "200", 2, 4, "400"},
		{"halves integer", "200 g", 4, 2, "100 g"},
		{"keeps unit text", "2 cups", 2, 3, "3 cups"},
		{"fractional result", "1", 2, 3, "1.5"},
		{"comma separator preserved", "2,5 dl", 2, 4, "5 dl"},
		{"same count unchanged", "200", 2, 2, "200"},
		{"unknown serving count unchanged", "200", -1, 4, "200"},
		{"non numeric unchanged", "a pinch", 2, 4, "a pinch"},
		{"empty unchanged", "", 2, 4, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scale(tt.q, tt.from, tt.to))
		})
	}
}

func TestSplitLeadingNumber(t *testing.T) {
	v, rest, ok := splitLeadingNumber("2,5 cups")
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)
	assert.Equal(t, " cups", rest)

	_, _, ok = splitLeadingNumber("cups")
	assert.False(t, ok)
}
