package books

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSortRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want func(t *testing.T, score int)
	}{
		{
			name: "exact match",
			a:    "The Name of the Wind",
			b:    "The Name of the Wind",
			want: func(t *testing.T, score int) { assert.Equal(t, 100, score) },
		},
		{
			name: "word order ignored",
			a:    "Wind the of Name The",
			b:    "The Name of the Wind",
			want: func(t *testing.T, score int) { assert.Equal(t, 100, score) },
		},
		{
			name: "case ignored",
			a:    "DUNE",
			b:    "Dune",
			want: func(t *testing.T, score int) { assert.Equal(t, 100, score) },
		},
		{
			name: "ocr noise stays above threshold",
			a:    "The Nane of the Wind",
			b:    "The Name of the Wind",
			want: func(t *testing.T, score int) { assert.GreaterOrEqual(t, score, fuzzyThreshold) },
		},
		{
			name: "unrelated titles score low",
			a:    "Dune",
			b:    "Pride and Prejudice",
			want: func(t *testing.T, score int) { assert.Less(t, score, fuzzyThreshold) },
		},
		{
			name: "empty string scores zero",
			a:    "",
			b:    "Dune",
			want: func(t *testing.T, score int) { assert.Zero(t, score) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, tokenSortRatio(tt.a, tt.b))
		})
	}
}

func TestSortTokens(t *testing.T) {
	assert.Equal(t, "name of the the wind", sortTokens("The Name of the Wind"))
	assert.Equal(t, "", sortTokens("   "))
}
