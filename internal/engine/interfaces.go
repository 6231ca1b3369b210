package engine

import (
	"context"

	"github.com/mlehane/shelfscout/internal/model"
)

// BatchScorer defines the contract for LLM-backed batch match scoring.
// The llm.Orchestrator satisfies it; tests use a recording mock.
type BatchScorer interface {
	ScoreBatch(ctx context.Context, candidates []model.CandidateBook, library []model.Book) ([]model.ProviderScore, error)
}
