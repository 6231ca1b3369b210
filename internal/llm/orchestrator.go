package llm

import (
	"context"
	"log/slog"

	"github.com/mlehane/shelfscout/internal/model"
)

// Orchestrator drives extraction and batch scoring across an ordered
// provider chain. Each provider gets exactly one attempt per request;
// fallback to the next provider is the sole retry mechanism. Attempts are
// strictly sequential so a fallback never races a billable call.
type Orchestrator struct {
	logger *slog.Logger
	chain  []Client
}

// NewOrchestrator creates an orchestrator over the given provider chain.
func NewOrchestrator(chain []Client, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{chain: chain, logger: logger}
}

// Providers reports each chain member's name and availability, in order.
func (o *Orchestrator) Providers() []ProviderStatus {
	statuses := make([]ProviderStatus, len(o.chain))
	for i, client := range o.chain {
		statuses[i] = ProviderStatus{Name: client.Name(), Available: client.Available()}
	}
	return statuses
}

// ProviderStatus describes one provider in the fallback chain.
type ProviderStatus struct {
	Name      string
	Available bool
}

// ExtractTitles runs title extraction with provider fallback. The first
// provider whose response survives repair and validation wins; every
// failure is recorded and carried in the terminal error.
func (o *Orchestrator) ExtractTitles(ctx context.Context, image []byte) ([]model.ExtractedTitle, error) {
	var failures []*ProviderError

	for _, client := range o.chain {
		if !client.Available() {
			o.logger.Debug("skipping unavailable provider", "provider", client.Name())
			continue
		}

		raw, err := client.ExtractTitlesFromImage(ctx, image)
		if err != nil {
			failures = append(failures, o.recordFailure(client.Name(), "extraction", err))
			continue
		}

		titles, err := ParseExtraction(raw)
		if err != nil {
			failures = append(failures, o.recordFailure(client.Name(), "extraction", err))
			continue
		}

		o.logger.Info("titles extracted",
			"provider", client.Name(),
			"prompt_version", extractionPromptVersion,
			"titles", len(titles),
			"failed_providers", len(failures))
		return titles, nil
	}

	return nil, &AllProvidersFailedError{Failures: failures}
}

// ScoreBatch runs batch match scoring with the same provider ordering and
// fallback policy as extraction.
func (o *Orchestrator) ScoreBatch(ctx context.Context, candidates []model.CandidateBook, library []model.Book) ([]model.ProviderScore, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var failures []*ProviderError

	for _, client := range o.chain {
		if !client.Available() {
			o.logger.Debug("skipping unavailable provider", "provider", client.Name())
			continue
		}

		raw, err := client.CalculateBatchMatchScores(ctx, candidates, library)
		if err != nil {
			failures = append(failures, o.recordFailure(client.Name(), "batch scoring", err))
			continue
		}

		scores, err := ParseBatchScores(raw)
		if err != nil {
			failures = append(failures, o.recordFailure(client.Name(), "batch scoring", err))
			continue
		}

		o.logger.Info("batch scored",
			"provider", client.Name(),
			"candidates", len(candidates),
			"scores", len(scores),
			"failed_providers", len(failures))
		return scores, nil
	}

	return nil, &AllProvidersFailedError{Failures: failures}
}

func (o *Orchestrator) recordFailure(provider, operation string, err error) *ProviderError {
	provErr, ok := err.(*ProviderError)
	if !ok {
		provErr = newProviderError(provider, FailureInvalidResponse, err)
	}

	o.logger.Warn("provider attempt failed, trying next",
		"provider", provider,
		"operation", operation,
		"kind", provErr.Kind.String(),
		"error", provErr.Err)
	return provErr
}
