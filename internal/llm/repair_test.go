package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n[{\"title\": \"Dune\"}]\n```",
			expected: `[{"title": "Dune"}]`,
		},
		{
			name:     "bare fence",
			input:    "```\n[]\n```",
			expected: "[]",
		},
		{
			name:     "no fence",
			input:    `[{"title": "Dune"}]`,
			expected: `[{"title": "Dune"}]`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n[]\n```  \n",
			expected: "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing comma in object",
			input:    `[{"title": "Dune",}]`,
			expected: `[{"title": "Dune"}]`,
		},
		{
			name:     "trailing comma in array",
			input:    `["a", "b",]`,
			expected: `["a", "b"]`,
		},
		{
			name:     "truncated mid string",
			input:    `[{"title": "Dune"}, {"title": "Neuro`,
			expected: `[{"title": "Dune"}, {"title": "Neuro"}]`,
		},
		{
			name:     "truncated after value",
			input:    `[{"title": "Dune", "confidence": 0.9`,
			expected: `[{"title": "Dune", "confidence": 0.9}]`,
		},
		{
			name:     "well formed untouched",
			input:    `[{"title": "Dune"}]`,
			expected: `[{"title": "Dune"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repairJSON(tt.input))
		})
	}
}

func TestParseExtraction(t *testing.T) {
	t.Run("clean response", func(t *testing.T) {
		raw := `[
			{"title": "Dune", "author": "Frank Herbert", "confidence": 0.95},
			{"title": "Neuromancer", "author": "William Gibson", "confidence": 0.8}
		]`
		titles, err := ParseExtraction(raw)
		require.NoError(t, err)
		require.Len(t, titles, 2)
		assert.Equal(t, "Dune", titles[0].Title)
		assert.Equal(t, "Frank Herbert", titles[0].Author)
		assert.InDelta(t, 0.95, titles[0].Confidence, 0.001)
	})

	t.Run("fenced and truncated response recovers", func(t *testing.T) {
		raw := "```json\n[{\"title\": \"Dune\", \"confidence\": 0.9}, {\"title\": \"Neuro"
		titles, err := ParseExtraction(raw)
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "Dune", titles[0].Title)
	})

	t.Run("empty array means empty shelf", func(t *testing.T) {
		titles, err := ParseExtraction("[]")
		require.NoError(t, err)
		assert.Empty(t, titles)
	})

	t.Run("low confidence filtered after validation", func(t *testing.T) {
		raw := `[
			{"title": "Barely Legible", "confidence": 0.2},
			{"title": "Clear Spine", "confidence": 0.7}
		]`
		titles, err := ParseExtraction(raw)
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "Clear Spine", titles[0].Title)
	})

	t.Run("missing confidence rejects item not response", func(t *testing.T) {
		raw := `[
			{"title": "No Confidence"},
			{"title": "Valid", "confidence": 0.9}
		]`
		titles, err := ParseExtraction(raw)
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "Valid", titles[0].Title)
	})

	t.Run("confidence out of range rejects item", func(t *testing.T) {
		raw := `[
			{"title": "Overconfident", "confidence": 1.4},
			{"title": "Valid", "confidence": 0.9}
		]`
		titles, err := ParseExtraction(raw)
		require.NoError(t, err)
		require.Len(t, titles, 1)
	})

	t.Run("duplicates collapse to first occurrence", func(t *testing.T) {
		raw := `[
			{"title": "The  Hobbit", "author": "Tolkien", "confidence": 0.9},
			{"title": "the hobbit", "author": "", "confidence": 0.95}
		]`
		titles, err := ParseExtraction(raw)
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "The Hobbit", titles[0].Title)
		assert.Equal(t, "Tolkien", titles[0].Author)
	})

	t.Run("nothing valid in nonempty response errors", func(t *testing.T) {
		raw := `[{"title": "", "confidence": 0.9}, {"title": "No Score"}]`
		_, err := ParseExtraction(raw)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("not JSON at all errors", func(t *testing.T) {
		_, err := ParseExtraction("I could not find any books in this image.")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("caps at thirty titles", func(t *testing.T) {
		raw := "["
		for i := 0; i < 40; i++ {
			if i > 0 {
				raw += ","
			}
			raw += `{"title": "Book ` + string(rune('A'+i%26)) + string(rune('0'+i/26)) + `", "confidence": 0.9}`
		}
		raw += "]"
		titles, err := ParseExtraction(raw)
		require.NoError(t, err)
		assert.Len(t, titles, maxTitles)
	})

	t.Run("visual context carried through", func(t *testing.T) {
		raw := `[{"title": "Dune", "confidence": 0.9, "visual_context": {"cover_style": "worn paperback"}}]`
		titles, err := ParseExtraction(raw)
		require.NoError(t, err)
		require.Len(t, titles, 1)
		require.NotNil(t, titles[0].Visual)
		assert.Equal(t, "worn paperback", titles[0].Visual.CoverStyle)
	})
}

func TestParseBatchScores(t *testing.T) {
	t.Run("clean response", func(t *testing.T) {
		raw := `[
			{"title": "Dune", "score": 0.85, "explanation": "Matches your sci-fi shelf"},
			{"title": "Emma", "score": 0.4, "explanation": "Different genre"}
		]`
		scores, err := ParseBatchScores(raw)
		require.NoError(t, err)
		require.Len(t, scores, 2)
		assert.Equal(t, "Dune", scores[0].Title)
		assert.InDelta(t, 0.85, scores[0].Score, 0.001)
	})

	t.Run("out of range scores clamped", func(t *testing.T) {
		raw := `[
			{"title": "High", "score": 1.4},
			{"title": "Low", "score": -0.2}
		]`
		scores, err := ParseBatchScores(raw)
		require.NoError(t, err)
		require.Len(t, scores, 2)
		assert.Equal(t, 1.0, scores[0].Score)
		assert.Equal(t, 0.0, scores[1].Score)
	})

	t.Run("missing explanation gets placeholder", func(t *testing.T) {
		raw := `[{"title": "Dune", "score": 0.5}]`
		scores, err := ParseBatchScores(raw)
		require.NoError(t, err)
		assert.Equal(t, "No explanation provided", scores[0].Explanation)
	})

	t.Run("entries without score dropped", func(t *testing.T) {
		raw := `[{"title": "No Score"}, {"title": "Dune", "score": 0.5}]`
		scores, err := ParseBatchScores(raw)
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, "Dune", scores[0].Title)
	})

	t.Run("nothing valid errors", func(t *testing.T) {
		_, err := ParseBatchScores(`[{"title": "No Score"}]`)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}
