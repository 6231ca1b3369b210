// Package books resolves extracted titles against the Google Books catalog.
package books

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	booksapi "google.golang.org/api/books/v1"
	"google.golang.org/api/option"

	"github.com/mlehane/shelfscout/internal/common"
	"github.com/mlehane/shelfscout/internal/model"
	"github.com/mlehane/shelfscout/internal/service"
)

// Client wraps the Google Books volumes API.
type Client struct {
	svc       *booksapi.Service
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewClient creates a Google Books client. The volumes API serves
// unauthenticated reads, so no credentials are needed.
func NewClient(ctx context.Context, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	svc, err := booksapi.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("failed to create books service: %w", err)
	}

	return &Client{
		svc:    svc,
		logger: logger,
		retryOpts: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 200 * time.Millisecond,
		},
	}, nil
}

// Search queries the catalog and returns parsed volume records.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]model.Book, error) {
	var resp *booksapi.Volumes

	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = c.svc.Volumes.List(query).MaxResults(maxResults).Context(ctx).Do()
		if callErr != nil {
			return &common.RetryableError{Err: callErr, Retryable: true}
		}
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %v", common.ErrCatalogUnavailable, query, err)
	}

	results := make([]model.Book, 0, len(resp.Items))
	for _, item := range resp.Items {
		if book, ok := parseVolume(item); ok {
			results = append(results, book)
		}
	}
	return results, nil
}

// Get fetches a single volume by its Google Books id.
func (c *Client) Get(ctx context.Context, volumeID string) (model.Book, error) {
	var item *booksapi.Volume

	err := common.WithRetry(ctx, func() error {
		var callErr error
		item, callErr = c.svc.Volumes.Get(volumeID).Context(ctx).Do()
		if callErr != nil {
			return &common.RetryableError{Err: callErr, Retryable: true}
		}
		return nil
	}, c.retryOpts)
	if err != nil {
		return model.Book{}, fmt.Errorf("%w: volume %q: %v", common.ErrCatalogUnavailable, volumeID, err)
	}

	book, ok := parseVolume(item)
	if !ok {
		return model.Book{}, fmt.Errorf("%w: volume %q", common.ErrNotFound, volumeID)
	}
	return book, nil
}

// parseVolume maps a raw volume into the domain record. ISBN-13 is
// preferred over ISBN-10.
func parseVolume(item *booksapi.Volume) (model.Book, bool) {
	if item == nil || item.VolumeInfo == nil || item.VolumeInfo.Title == "" {
		return model.Book{}, false
	}
	info := item.VolumeInfo

	var isbn string
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			isbn = id.Identifier
			break
		}
	}
	if isbn == "" {
		for _, id := range info.IndustryIdentifiers {
			if id.Type == "ISBN_10" {
				isbn = id.Identifier
				break
			}
		}
	}

	var author string
	if len(info.Authors) > 0 {
		author = info.Authors[0]
		for _, a := range info.Authors[1:] {
			author += ", " + a
		}
	}

	var thumbnail string
	if info.ImageLinks != nil {
		thumbnail = info.ImageLinks.Thumbnail
		if thumbnail == "" {
			thumbnail = info.ImageLinks.SmallThumbnail
		}
	}

	return model.Book{
		GoogleBooksID: item.Id,
		Title:         info.Title,
		Author:        author,
		ISBN:          isbn,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		ThumbnailURL:  thumbnail,
		Categories:    info.Categories,
		PageCount:     int(info.PageCount),
		AverageRating: info.AverageRating,
		RatingsCount:  int(info.RatingsCount),
	}, true
}
