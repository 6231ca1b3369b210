package engine

import (
	"context"
	"sync"

	"github.com/mlehane/shelfscout/internal/model"
)

// MockScorer is a test implementation of the BatchScorer interface. It
// records every call and returns canned results, so tests can assert on
// call counts and exercise reconciliation edge cases.
type MockScorer struct {
	// Results is returned from the next ScoreBatch call when Err is nil.
	Results []model.ProviderScore
	// Err, when set, fails every ScoreBatch call.
	Err error

	calls []MockScoreCall
	mu    sync.Mutex
}

// MockScoreCall records the arguments of one ScoreBatch invocation.
type MockScoreCall struct {
	Candidates []model.CandidateBook
	Library    []model.Book
}

// ScoreBatch records the call and returns the configured results or error.
func (m *MockScorer) ScoreBatch(_ context.Context, candidates []model.CandidateBook, library []model.Book) ([]model.ProviderScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockScoreCall{Candidates: candidates, Library: library})

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}

// Calls returns a copy of all recorded invocations.
func (m *MockScorer) Calls() []MockScoreCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]MockScoreCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns how many times ScoreBatch was invoked.
func (m *MockScorer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
