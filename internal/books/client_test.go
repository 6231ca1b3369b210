package books

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	booksapi "google.golang.org/api/books/v1"
)

func TestParseVolume(t *testing.T) {
	item := &booksapi.Volume{
		Id: "vol1",
		VolumeInfo: &booksapi.VolumeVolumeInfo{
			Title:         "Dune",
			Authors:       []string{"Frank Herbert"},
			Publisher:     "Chilton Books",
			PublishedDate: "1965",
			Description:   "Desert planet politics",
			Categories:    []string{"Fiction", "Science Fiction"},
			PageCount:     412,
			AverageRating: 4.2,
			RatingsCount:  5000,
			IndustryIdentifiers: []*booksapi.VolumeVolumeInfoIndustryIdentifiers{
				{Type: "ISBN_10", Identifier: "0441013597"},
				{Type: "ISBN_13", Identifier: "9780441013593"},
			},
			ImageLinks: &booksapi.VolumeVolumeInfoImageLinks{
				Thumbnail: "https://example.com/dune.jpg",
			},
		},
	}

	book, ok := parseVolume(item)
	require.True(t, ok)
	assert.Equal(t, "vol1", book.GoogleBooksID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, "9780441013593", book.ISBN, "ISBN-13 preferred over ISBN-10")
	assert.Equal(t, []string{"Fiction", "Science Fiction"}, book.Categories)
	assert.Equal(t, 412, book.PageCount)
	assert.InDelta(t, 4.2, book.AverageRating, 0.001)
}

func TestParseVolume_MultipleAuthorsJoined(t *testing.T) {
	item := &booksapi.Volume{
		Id: "vol2",
		VolumeInfo: &booksapi.VolumeVolumeInfo{
			Title:   "Good Omens",
			Authors: []string{"Terry Pratchett", "Neil Gaiman"},
		},
	}

	book, ok := parseVolume(item)
	require.True(t, ok)
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", book.Author)
}

func TestParseVolume_RejectsUntitled(t *testing.T) {
	_, ok := parseVolume(&booksapi.Volume{Id: "vol3", VolumeInfo: &booksapi.VolumeVolumeInfo{}})
	assert.False(t, ok)

	_, ok = parseVolume(nil)
	assert.False(t, ok)
}
