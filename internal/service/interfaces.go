// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/mlehane/shelfscout/internal/model"
)

// RetryOptions configures retry behavior for transient failures.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Storage defines the persistence contract for the user's library.
type Storage interface {
	Migrate(ctx context.Context) error
	UpsertBook(ctx context.Context, book model.Book) error
	AddToLibrary(ctx context.Context, userID, googleBooksID string) error
	RemoveFromLibrary(ctx context.Context, userID, googleBooksID string) error
	ListLibrary(ctx context.Context, userID string) ([]model.Book, error)
	Close() error
}

// TitleExtractor reads candidate book titles from a shelf photograph.
type TitleExtractor interface {
	ExtractTitles(ctx context.Context, image []byte) ([]model.ExtractedTitle, error)
}

// CandidateResolver resolves extracted titles against an external catalog.
type CandidateResolver interface {
	ResolveAll(ctx context.Context, titles []model.ExtractedTitle, onResolved func()) []model.CandidateBook
}
