package books

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/mlehane/shelfscout/internal/model"
)

// Fuzzy matching tuning. Extracted titles carry OCR-style noise, so the
// best catalog hit is chosen by token-sort similarity rather than taking
// the API's first result.
const (
	fuzzyThreshold    = 70
	fuzzyMaxResults   = 10
	authorTitleWeight = 0.7
	authorWeight      = 0.3
)

// FuzzySearch finds the catalog volume best matching a possibly-garbled
// title. Returns false when nothing clears the similarity threshold or the
// catalog returned no usable results.
func (c *Client) FuzzySearch(ctx context.Context, title, author string) (model.Book, bool, error) {
	query := title
	if author != "" {
		query = title + " " + author
	}

	results, err := c.Search(ctx, query, fuzzyMaxResults)
	if err != nil {
		return model.Book{}, false, err
	}

	var best model.Book
	bestScore := 0

	for _, book := range results {
		score := tokenSortRatio(title, book.Title)

		if author != "" && book.Author != "" {
			authorScore := tokenSortRatio(author, book.Author)
			score = int(float64(score)*authorTitleWeight + float64(authorScore)*authorWeight)
		}

		if score > bestScore && score >= fuzzyThreshold {
			bestScore = score
			best = book
		}
	}

	if bestScore == 0 {
		return model.Book{}, false, nil
	}

	c.logger.Debug("fuzzy matched title",
		"title", title,
		"matched", best.Title,
		"score", bestScore)
	return best, true, nil
}

// tokenSortRatio computes a 0-100 similarity between two strings after
// lowercasing and sorting their tokens, so word order differences don't
// count against the match.
func tokenSortRatio(a, b string) int {
	normA := sortTokens(a)
	normB := sortTokens(b)

	if normA == "" || normB == "" {
		return 0
	}
	if normA == normB {
		return 100
	}

	distance := levenshtein.ComputeDistance(normA, normB)
	longest := len([]rune(normA))
	if l := len([]rune(normB)); l > longest {
		longest = l
	}

	return (longest - distance) * 100 / longest
}

func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
