package model

import "strings"

// VisualContext carries structured hints about how a book looked on the
// shelf. Every field is optional free text.
type VisualContext struct {
	CoverStyle      string `json:"cover_style,omitempty"`
	ApparentGenre   string `json:"apparent_genre,omitempty"`
	TargetAudience  string `json:"target_audience,omitempty"`
	NotableFeatures string `json:"notable_features,omitempty"`
}

// Empty reports whether no visual hint was provided at all.
func (v *VisualContext) Empty() bool {
	return v == nil || (v.CoverStyle == "" && v.ApparentGenre == "" &&
		v.TargetAudience == "" && v.NotableFeatures == "")
}

// ExtractedTitle is a single candidate title read from a shelf image.
type ExtractedTitle struct {
	Title      string
	Author     string
	Confidence float64
	Visual     *VisualContext
}

// NormalizedTitle returns the dedup key for this title within a batch.
func (t *ExtractedTitle) NormalizedTitle() string {
	return NormalizeTitle(t.Title)
}

// NormalizeTitle lowercases a title and collapses internal whitespace.
func NormalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
