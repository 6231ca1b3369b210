package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mlehane/shelfscout/internal/model"
)

// extractionPromptVersion tags the fixed instruction prompt so response
// regressions can be correlated with prompt changes.
const extractionPromptVersion = "v3"

const extractionPrompt = `Analyze this image of a bookshelf or book covers and extract all visible book titles.

For each book you can clearly identify, provide:
1. The full title (as accurately as you can read it)
2. The author's name, if it is visible
3. A confidence score from 0.0 to 1.0 based on how clearly you can read the title
4. Optional visual context: cover style, apparent genre, target audience, and notable features

Rules:
- Only include actual book titles you can see in the image
- If you can only partially read a title, include what you can see and lower the confidence
- If text is blurry or unclear, give it a lower confidence score (0.3-0.6)
- If text is crystal clear, give it a high confidence score (0.8-1.0)
- Ignore ISBN numbers, prices, barcodes, publisher names, and other metadata
- Include both horizontal and vertical text (book spines)

Return ONLY a JSON array with this exact format (no other text):
[{"title": "Book Title Here", "author": "Author Name", "confidence": 0.95, "visual_context": {"cover_style": "minimalist", "apparent_genre": "science fiction", "target_audience": "adult", "notable_features": "embossed lettering"}}]

The "author" and "visual_context" fields may be omitted when not discernible.
If you cannot identify any book titles with reasonable confidence, return an empty array: []`

// buildExtractionPrompt returns the fixed, versioned extraction instruction.
func buildExtractionPrompt() string {
	return extractionPrompt
}

const maxPromptDescriptionLen = 300

// buildBatchScorePrompt covers all candidates in one request to bound call
// volume. The response contract is title-keyed: providers must echo each
// candidate's title verbatim.
func buildBatchScorePrompt(candidates []model.CandidateBook, library []model.Book) string {
	var sb strings.Builder

	sb.WriteString("You are a book recommendation expert. Analyze how well each detected book matches a reader's preferences based on their library.\n\n")

	if len(library) == 0 {
		sb.WriteString("The reader has an empty library (new user).\n")
	} else {
		sb.WriteString("Reader's library:\n")
		for i := range library {
			book := &library[i]
			author := book.Author
			if author == "" {
				author = "Unknown"
			}
			fmt.Fprintf(&sb, "- %s by %s\n", book.Title, author)
		}
	}

	sb.WriteString("\nBooks to evaluate:\n")
	for i := range candidates {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, formatBookSummary(&candidates[i].Book))
	}

	sb.WriteString(`
For each book above, provide:
1. A match score from 0.0 to 1.0 (where 1.0 is a perfect match for this reader)
2. A brief explanation (1-2 sentences) of why it matches or doesn't match

Consider genre and category overlap, author familiarity, thematic
similarities, writing style patterns, and reading level.

Respond with ONLY a JSON array containing one object per book. Echo each
book's title EXACTLY as written above; results are matched by title:
[{"title": "Book Title", "score": 0.85, "explanation": "Your explanation here"}]`)

	return sb.String()
}

// formatBookSummary condenses candidate metadata for the prompt.
func formatBookSummary(book *model.Book) string {
	parts := []string{"Title: " + book.Title}

	if book.Author != "" {
		parts = append(parts, "Author: "+book.Author)
	}
	if len(book.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(book.Categories, ", "))
	}
	if book.Description != "" {
		desc := book.Description
		if len(desc) > maxPromptDescriptionLen {
			cut := maxPromptDescriptionLen
			// Back up to a rune boundary so the cut never splits a
			// multi-byte character.
			for cut > 0 && !utf8.RuneStart(desc[cut]) {
				cut--
			}
			desc = desc[:cut] + "..."
		}
		parts = append(parts, "Description: "+desc)
	}
	if book.AverageRating > 0 {
		parts = append(parts, fmt.Sprintf("Rating: %.1f/5", book.AverageRating))
	}

	return strings.Join(parts, "\n   ")
}
