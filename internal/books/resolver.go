package books

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mlehane/shelfscout/internal/model"
)

// maxResolveWorkers bounds concurrent catalog lookups so large extractions
// don't hammer the volumes API.
const maxResolveWorkers = 5

// fuzzyFinder is the catalog capability the resolver needs.
type fuzzyFinder interface {
	FuzzySearch(ctx context.Context, title, author string) (model.Book, bool, error)
}

// Resolver turns extracted titles into catalog-backed candidate books.
type Resolver struct {
	client fuzzyFinder
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the given catalog client.
func NewResolver(client fuzzyFinder, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{client: client, logger: logger}
}

// ResolveAll looks up every extracted title concurrently and returns the
// candidates that matched, in extraction order. Lookup failures and titles
// that don't clear the fuzzy threshold are dropped rather than failing the
// whole scan. onResolved, when non-nil, is called once per title as its
// lookup finishes, matched or not.
func (r *Resolver) ResolveAll(ctx context.Context, titles []model.ExtractedTitle, onResolved func()) []model.CandidateBook {
	results := make([]*model.CandidateBook, len(titles))

	sem := make(chan struct{}, maxResolveWorkers)
	var wg sync.WaitGroup

	for i, title := range titles {
		wg.Add(1)
		go func(idx int, extracted model.ExtractedTitle) {
			defer wg.Done()
			defer func() {
				if onResolved != nil {
					onResolved()
				}
			}()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			book, ok, err := r.client.FuzzySearch(ctx, extracted.Title, extracted.Author)
			if err != nil {
				r.logger.Warn("catalog lookup failed",
					"title", extracted.Title,
					"error", err)
				return
			}
			if !ok {
				r.logger.Debug("no catalog match", "title", extracted.Title)
				return
			}

			results[idx] = &model.CandidateBook{
				Book:       book,
				Confidence: extracted.Confidence,
			}
		}(i, title)
	}

	wg.Wait()

	candidates := make([]model.CandidateBook, 0, len(titles))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}

	r.logger.Info("resolved candidates",
		"extracted", len(titles),
		"matched", len(candidates))
	return candidates
}
