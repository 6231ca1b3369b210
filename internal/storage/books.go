package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/mlehane/shelfscout/internal/common"
	"github.com/mlehane/shelfscout/internal/model"
)

// UpsertBook inserts a catalog record or refreshes an existing one.
func (s *SQLiteStorage) UpsertBook(ctx context.Context, book model.Book) error {
	if book.GoogleBooksID == "" {
		return fmt.Errorf("book has no catalog ID")
	}

	categoriesJSON := ""
	if len(book.Categories) > 0 {
		categoriesBytes, err := json.Marshal(book.Categories)
		if err != nil {
			return fmt.Errorf("failed to marshal categories: %w", err)
		}
		categoriesJSON = string(categoriesBytes)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			google_books_id, title, author, isbn, publisher, published_date,
			description, thumbnail_url, categories, page_count,
			average_rating, ratings_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(google_books_id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			isbn = excluded.isbn,
			publisher = excluded.publisher,
			published_date = excluded.published_date,
			description = excluded.description,
			thumbnail_url = excluded.thumbnail_url,
			categories = excluded.categories,
			page_count = excluded.page_count,
			average_rating = excluded.average_rating,
			ratings_count = excluded.ratings_count,
			updated_at = CURRENT_TIMESTAMP
	`,
		book.GoogleBooksID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Publisher,
		book.PublishedDate,
		book.Description,
		book.ThumbnailURL,
		categoriesJSON,
		book.PageCount,
		book.AverageRating,
		book.RatingsCount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert book: %w", err)
	}
	return nil
}

// AddToLibrary records that the user owns a book. The book must already
// exist in the books table. Returns common.ErrDuplicateEntry when the
// book is already in the library.
func (s *SQLiteStorage) AddToLibrary(ctx context.Context, userID, googleBooksID string) error {
	if userID == "" || googleBooksID == "" {
		return fmt.Errorf("userID and googleBooksID cannot be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO library_entries (user_id, google_books_id) VALUES (?, ?)
	`, userID, googleBooksID)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%w: book %s", common.ErrDuplicateEntry, googleBooksID)
		}
		return fmt.Errorf("failed to add library entry: %w", err)
	}
	return nil
}

// RemoveFromLibrary deletes a library entry. Returns common.ErrNotFound
// when the book was not in the library.
func (s *SQLiteStorage) RemoveFromLibrary(ctx context.Context, userID, googleBooksID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM library_entries WHERE user_id = ? AND google_books_id = ?
	`, userID, googleBooksID)
	if err != nil {
		return fmt.Errorf("failed to remove library entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: book %s", common.ErrNotFound, googleBooksID)
	}
	return nil
}

// ListLibrary returns every book the user owns, most recently added first.
func (s *SQLiteStorage) ListLibrary(ctx context.Context, userID string) ([]model.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.google_books_id, b.title, b.author, b.isbn, b.publisher,
		       b.published_date, b.description, b.thumbnail_url, b.categories,
		       b.page_count, b.average_rating, b.ratings_count
		FROM library_entries le
		JOIN books b ON b.google_books_id = le.google_books_id
		WHERE le.user_id = ?
		ORDER BY le.added_at DESC, b.google_books_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query library: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var books []model.Book
	for rows.Next() {
		book, scanErr := scanBook(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate library rows: %w", err)
	}
	return books, nil
}

func scanBook(rows *sql.Rows) (model.Book, error) {
	var book model.Book
	var categoriesJSON sql.NullString

	err := rows.Scan(
		&book.GoogleBooksID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Publisher,
		&book.PublishedDate,
		&book.Description,
		&book.ThumbnailURL,
		&categoriesJSON,
		&book.PageCount,
		&book.AverageRating,
		&book.RatingsCount,
	)
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to scan book row: %w", err)
	}

	if categoriesJSON.Valid && categoriesJSON.String != "" {
		if err := json.Unmarshal([]byte(categoriesJSON.String), &book.Categories); err != nil {
			return model.Book{}, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
	}
	return book, nil
}
