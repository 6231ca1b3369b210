package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mlehane/shelfscout/internal/common"
	"github.com/mlehane/shelfscout/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testBook(id, title string) model.Book {
	return model.Book{
		GoogleBooksID: id,
		Title:         title,
		Author:        "Test Author",
		Categories:    []string{"Fiction", "Mystery"},
		PageCount:     320,
		AverageRating: 4.2,
		RatingsCount:  150,
	}
}

func TestSQLiteStorage_UpsertBook(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	book := testBook("vol1", "The Long Goodbye")
	if err := store.UpsertBook(ctx, book); err != nil {
		t.Fatalf("Failed to upsert book: %v", err)
	}

	// Upsert again with changed metadata; should update, not error.
	book.AverageRating = 4.8
	book.Title = "The Long Goodbye (Revised)"
	if err := store.UpsertBook(ctx, book); err != nil {
		t.Fatalf("Failed to re-upsert book: %v", err)
	}

	if err := store.AddToLibrary(ctx, "user1", "vol1"); err != nil {
		t.Fatalf("Failed to add to library: %v", err)
	}

	books, err := store.ListLibrary(ctx, "user1")
	if err != nil {
		t.Fatalf("Failed to list library: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("Expected 1 book, got %d", len(books))
	}
	if books[0].Title != "The Long Goodbye (Revised)" {
		t.Errorf("Expected updated title, got %q", books[0].Title)
	}
	if books[0].AverageRating != 4.8 {
		t.Errorf("Expected updated rating, got %v", books[0].AverageRating)
	}
	if len(books[0].Categories) != 2 {
		t.Errorf("Expected 2 categories, got %v", books[0].Categories)
	}
}

func TestSQLiteStorage_UpsertBook_MissingID(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	book := testBook("", "No ID")
	if err := store.UpsertBook(context.Background(), book); err == nil {
		t.Error("Expected error for book without catalog ID")
	}
}

func TestSQLiteStorage_AddToLibrary_Duplicate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.UpsertBook(ctx, testBook("vol1", "Dune")); err != nil {
		t.Fatalf("Failed to upsert book: %v", err)
	}
	if err := store.AddToLibrary(ctx, "user1", "vol1"); err != nil {
		t.Fatalf("Failed to add to library: %v", err)
	}

	err := store.AddToLibrary(ctx, "user1", "vol1")
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("Expected ErrDuplicateEntry, got %v", err)
	}

	// Same book for a different user is not a duplicate.
	if err := store.AddToLibrary(ctx, "user2", "vol1"); err != nil {
		t.Errorf("Unexpected error adding for second user: %v", err)
	}
}

func TestSQLiteStorage_RemoveFromLibrary(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.UpsertBook(ctx, testBook("vol1", "Dune")); err != nil {
		t.Fatalf("Failed to upsert book: %v", err)
	}
	if err := store.AddToLibrary(ctx, "user1", "vol1"); err != nil {
		t.Fatalf("Failed to add to library: %v", err)
	}

	if err := store.RemoveFromLibrary(ctx, "user1", "vol1"); err != nil {
		t.Fatalf("Failed to remove from library: %v", err)
	}

	err := store.RemoveFromLibrary(ctx, "user1", "vol1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	books, err := store.ListLibrary(ctx, "user1")
	if err != nil {
		t.Fatalf("Failed to list library: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("Expected empty library, got %d books", len(books))
	}
}

func TestSQLiteStorage_ListLibrary_Empty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	books, err := store.ListLibrary(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Failed to list library: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("Expected no books, got %d", len(books))
	}
}

func TestSQLiteStorage_Migrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Running migrations again on an up-to-date database is a no-op.
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}
}
