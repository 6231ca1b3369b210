// Package engine ranks detected books against a reader's library. It
// composes a rule-based scorer (always available) with LLM batch scoring
// behind a fallback chain, and guarantees a complete, ranked result no
// matter which providers fail.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/mlehane/shelfscout/internal/llm"
	"github.com/mlehane/shelfscout/internal/model"
)

// Rule-based scoring weights.
const (
	weightAuthor     = 0.4
	weightCategory   = 0.3
	weightRating     = 0.2
	weightPopularity = 0.1
)

// Fallback explanations returned when the LLM path degrades.
const (
	explRuleBased      = "Rule-based recommendation"
	explLLMUnavailable = "Rule-based recommendation (LLM unavailable)"
	explLLMError       = "Rule-based recommendation (LLM error)"
	explNoLLMMatch     = "Rule-based recommendation (no LLM match)"
)

// Engine scores and ranks candidate books. Public entry points never
// return an error: scoring degrades from LLM-batch to rule-based, and the
// caller always gets one scored result per candidate.
type Engine struct {
	scorer     BatchScorer
	cache      *ScoreCache
	logger     *slog.Logger
	llmEnabled bool
}

// New creates a recommendation engine. scorer may be nil, in which case
// every candidate is scored by rules alone.
func New(scorer BatchScorer, cache *ScoreCache, llmEnabled bool, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = NewScoreCache(0, 0)
	}
	return &Engine{
		scorer:     scorer,
		cache:      cache,
		logger:     logger,
		llmEnabled: llmEnabled,
	}
}

// RankCandidates scores every detected book against the library, marks
// ownership, and partitions the results. Recommendations exclude books
// already in the library and are sorted by score descending; ties keep
// their extraction order.
func (e *Engine) RankCandidates(ctx context.Context, detected []model.CandidateBook, library []model.Book, userID string) model.ScanResult {
	scored := e.scoreAll(ctx, detected, library, userID)

	owned := make(map[string]struct{}, len(library))
	for i := range library {
		owned[library[i].ID()] = struct{}{}
	}

	result := model.ScanResult{
		Detected:        make([]model.CandidateBook, 0, len(scored)),
		Recommendations: make([]model.CandidateBook, 0, len(scored)),
	}

	for _, candidate := range scored {
		if _, inLibrary := owned[candidate.ID()]; inLibrary {
			candidate.InLibrary = true
		}
		result.Detected = append(result.Detected, candidate)
		if !candidate.InLibrary {
			result.Recommendations = append(result.Recommendations, candidate)
		}
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].MatchScore > result.Recommendations[j].MatchScore
	})

	e.logger.Info("candidates ranked",
		"user_id", userID,
		"detected", len(result.Detected),
		"recommendations", len(result.Recommendations),
		"library_size", len(library))

	return result
}

// scoreAll assigns a match score and explanation to every candidate.
func (e *Engine) scoreAll(ctx context.Context, detected []model.CandidateBook, library []model.Book, userID string) []model.CandidateBook {
	scored := make([]model.CandidateBook, len(detected))
	copy(scored, detected)

	if !e.llmEnabled || e.scorer == nil {
		for i := range scored {
			scored[i].MatchScore = RuleBasedScore(&scored[i].Book, library)
			scored[i].Explanation = explRuleBased
		}
		return scored
	}

	fingerprint := model.LibraryFingerprint(library)

	// Cache probes first; only misses go to the provider.
	var misses []int
	for i := range scored {
		key := e.cache.Key(fingerprint, scored[i].ID())
		if cached, ok := e.cache.Get(key); ok {
			scored[i].MatchScore = model.Clamp01(cached.Score)
			scored[i].Explanation = cached.Explanation
			continue
		}
		misses = append(misses, i)
	}

	if len(misses) == 0 {
		return scored
	}

	pending := make([]model.CandidateBook, len(misses))
	for i, idx := range misses {
		pending[i] = scored[idx]
	}

	sampled := llm.SampleLibrary(library, userID)

	results, err := e.scorer.ScoreBatch(ctx, pending, sampled)
	if err != nil {
		explanation := explLLMError
		var allFailed *llm.AllProvidersFailedError
		if errors.As(err, &allFailed) && len(allFailed.Failures) == 0 {
			explanation = explLLMUnavailable
		}
		e.logger.Warn("batch scoring failed, falling back to rules",
			"user_id", userID,
			"candidates", len(pending),
			"error", err)
		for _, idx := range misses {
			scored[idx].MatchScore = RuleBasedScore(&scored[idx].Book, library)
			scored[idx].Explanation = explanation
		}
		return scored
	}

	// Reconcile by exact title, never by position: providers reorder and
	// drop entries. First occurrence of a title wins.
	byTitle := make(map[string]model.ProviderScore, len(results))
	for _, r := range results {
		if _, dup := byTitle[r.Title]; !dup {
			byTitle[r.Title] = r
		}
	}

	for _, idx := range misses {
		candidate := &scored[idx]
		result, matched := byTitle[candidate.Title]
		if !matched {
			e.logger.Warn("batch result missing candidate, falling back to rules",
				"title", candidate.Title)
			candidate.MatchScore = RuleBasedScore(&candidate.Book, library)
			candidate.Explanation = explNoLLMMatch
			continue
		}

		candidate.MatchScore = model.Clamp01(result.Score)
		candidate.Explanation = result.Explanation
		e.cache.Set(e.cache.Key(fingerprint, candidate.ID()), CachedScore{
			Score:       candidate.MatchScore,
			Explanation: candidate.Explanation,
		})
	}

	return scored
}

// RuleBasedScore computes the weighted heuristic match score. With an empty
// library the score collapses to the candidate's rating alone.
func RuleBasedScore(candidate *model.Book, library []model.Book) float64 {
	if len(library) == 0 {
		return model.Clamp01(candidate.AverageRating / 5.0)
	}

	var score float64

	if authorMatches(candidate.Author, library) {
		score += weightAuthor
	}

	if overlap := categoryOverlap(candidate, library); overlap > 0 {
		score += weightCategory * min(float64(overlap)/3.0, 1.0)
	}

	if candidate.AverageRating > 0 {
		score += weightRating * min(candidate.AverageRating/5.0, 1.0)
	}

	if candidate.RatingsCount > 0 {
		score += weightPopularity * min(float64(candidate.RatingsCount)/1000.0, 1.0)
	}

	return model.Clamp01(score)
}

// authorMatches reports whether the candidate's author matches any library
// author by case-insensitive substring in either direction.
func authorMatches(author string, library []model.Book) bool {
	author = strings.ToLower(strings.TrimSpace(author))
	if author == "" {
		return false
	}

	for i := range library {
		libraryAuthor := strings.ToLower(strings.TrimSpace(library[i].Author))
		if libraryAuthor == "" {
			continue
		}
		if strings.Contains(author, libraryAuthor) || strings.Contains(libraryAuthor, author) {
			return true
		}
	}
	return false
}

// categoryOverlap counts distinct categories shared between the candidate
// and the library as a whole.
func categoryOverlap(candidate *model.Book, library []model.Book) int {
	candidateSet := candidate.CategorySet()
	if len(candidateSet) == 0 {
		return 0
	}

	librarySet := make(map[string]struct{})
	for i := range library {
		for cat := range library[i].CategorySet() {
			librarySet[cat] = struct{}{}
		}
	}

	overlap := 0
	for cat := range candidateSet {
		if _, ok := librarySet[cat]; ok {
			overlap++
		}
	}
	return overlap
}
