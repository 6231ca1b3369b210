package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlehane/shelfscout/internal/model"
)

func TestFormatBookSummary_TruncatesLongDescription(t *testing.T) {
	book := &model.Book{
		Title:       "Solaris",
		Description: strings.Repeat("a", maxPromptDescriptionLen+50),
	}

	summary := formatBookSummary(book)
	assert.Contains(t, summary, "...")
	assert.NotContains(t, summary, strings.Repeat("a", maxPromptDescriptionLen+1))
}

func TestFormatBookSummary_TruncatesOnRuneBoundary(t *testing.T) {
	// One ASCII byte followed by 3-byte runes puts every rune boundary at
	// 1+3k, so a naive byte slice at the cut point lands mid-rune.
	book := &model.Book{
		Title:       "世界の終り",
		Description: "x" + strings.Repeat("あ", maxPromptDescriptionLen),
	}

	summary := formatBookSummary(book)
	require.True(t, utf8.ValidString(summary))
	assert.Contains(t, summary, "...")
	assert.NotContains(t, summary, string(utf8.RuneError))
}

func TestFormatBookSummary_ShortDescriptionUntouched(t *testing.T) {
	book := &model.Book{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Description: "Desert planet politics.",
	}

	summary := formatBookSummary(book)
	assert.Contains(t, summary, "Desert planet politics.")
	assert.NotContains(t, summary, "...")
}

func TestBuildBatchScorePrompt_EchoesTitles(t *testing.T) {
	candidates := []model.CandidateBook{
		{Book: model.Book{GoogleBooksID: "v1", Title: "Hyperion"}},
		{Book: model.Book{GoogleBooksID: "v2", Title: "Ubik"}},
	}
	library := []model.Book{{Title: "Neuromancer", Author: "William Gibson"}}

	prompt := buildBatchScorePrompt(candidates, library)
	assert.Contains(t, prompt, "Hyperion")
	assert.Contains(t, prompt, "Ubik")
	assert.Contains(t, prompt, "Neuromancer")
	assert.Contains(t, prompt, "matched by title")
}
