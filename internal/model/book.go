// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// Book represents a resolved catalog record, either from the user's library
// or from a Google Books lookup.
type Book struct {
	GoogleBooksID string
	Title         string
	Author        string
	ISBN          string
	Publisher     string
	PublishedDate string
	Description   string
	ThumbnailURL  string
	Categories    []string
	PageCount     int
	AverageRating float64
	RatingsCount  int
}

// ID returns the stable identifier used for cache keys and library lookups.
// Falls back to the normalized title when no catalog id is available.
func (b *Book) ID() string {
	if b.GoogleBooksID != "" {
		return b.GoogleBooksID
	}
	return NormalizeTitle(b.Title)
}

// CategorySet returns the book's categories as a lowercased set.
func (b *Book) CategorySet() map[string]struct{} {
	set := make(map[string]struct{}, len(b.Categories))
	for _, c := range b.Categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// CandidateBook is a detected book being evaluated against the library.
// Created per scan request and discarded once the result is returned.
type CandidateBook struct {
	Book
	Confidence  float64
	MatchScore  float64
	InLibrary   bool
	Explanation string
}

// ScanResult partitions scored candidates into everything that was detected
// and the subset worth recommending (not already owned, ranked by score).
type ScanResult struct {
	Detected        []CandidateBook
	Recommendations []CandidateBook
}

// LibraryFingerprint hashes the library's book identifiers into a stable
// key component. Identifiers are sorted first so ingestion order cannot
// change the fingerprint.
func LibraryFingerprint(library []Book) string {
	ids := make([]string, 0, len(library))
	for i := range library {
		ids = append(ids, library[i].ID())
	}
	sort.Strings(ids)
	hash := sha256.Sum256([]byte(strings.Join(ids, "\x00")))
	return fmt.Sprintf("%x", hash[:16])
}

// Clamp01 bounds a score or confidence value to [0.0, 1.0].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
