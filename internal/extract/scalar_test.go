package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalar(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Scalar
	}{
		{
			name: "single number",
			text: "4",
			want: Scalar{Kind: ScalarNumber, Number: 4},
		},
		{
			name: "number with decoration",
			text: "Serves: 6 hungry people",
			want: Scalar{Kind: ScalarNumber, Number: 6},
		},
		{
			name: "comma decimal",
			text: "2,5",
			want: Scalar{Kind: ScalarNumber, Number: 2.5},
		},
		{
			name: "number list",
			text: "2 - 4",
			want: Scalar{Kind: ScalarNumberList, Numbers: []float64{2, 4}},
		},
		{
			name: "persons and time pair",
			text: "2 pers. 30 min",
			want: Scalar{Kind: ScalarPersonsTime, Pairs: []PersonsTime{{Persons: 2, Minutes: 30}}},
		},
		{
			name: "french pairing",
			text: "4 personnes - 35 min",
			want: Scalar{Kind: ScalarPersonsTime, Pairs: []PersonsTime{{Persons: 4, Minutes: 35}}},
		},
		{
			name: "multiple pairs",
			text: "2p / 20 mn ou 4p / 35 mn",
			want: Scalar{Kind: ScalarPersonsTime, Pairs: []PersonsTime{
				{Persons: 2, Minutes: 20},
				{Persons: 4, Minutes: 35},
			}},
		},
		{
			name: "no numbers",
			text: "a pinch of salt",
			want: Scalar{Kind: ScalarNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScalar(tt.text))
		})
	}
}

func TestLeadingNumber(t *testing.T) {
	v, ok := LeadingNumber("2,5 cups")
	require.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)

	v, ok = LeadingNumber("200")
	require.True(t, ok)
	assert.InDelta(t, 200, v, 1e-9)

	_, ok = LeadingNumber("some")
	assert.False(t, ok)

	_, ok = LeadingNumber("")
	assert.False(t, ok)
}
