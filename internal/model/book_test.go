package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookID(t *testing.T) {
	withID := Book{GoogleBooksID: "vol1", Title: "Dune"}
	assert.Equal(t, "vol1", withID.ID())

	withoutID := Book{Title: "  The   HOBBIT  "}
	assert.Equal(t, "the hobbit", withoutID.ID())
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "the name of the wind", NormalizeTitle("The  Name\tof the Wind"))
	assert.Equal(t, "", NormalizeTitle("   "))
}

func TestLibraryFingerprint_OrderIndependent(t *testing.T) {
	a := Book{GoogleBooksID: "vol1"}
	b := Book{GoogleBooksID: "vol2"}

	assert.Equal(t,
		LibraryFingerprint([]Book{a, b}),
		LibraryFingerprint([]Book{b, a}))
}

func TestLibraryFingerprint_ChangesWithContents(t *testing.T) {
	a := Book{GoogleBooksID: "vol1"}
	b := Book{GoogleBooksID: "vol2"}

	assert.NotEqual(t,
		LibraryFingerprint([]Book{a}),
		LibraryFingerprint([]Book{a, b}))
	assert.NotEqual(t, LibraryFingerprint(nil), LibraryFingerprint([]Book{a}))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.4))
	assert.Equal(t, 0.7, Clamp01(0.7))
}

func TestCategorySet(t *testing.T) {
	book := Book{Categories: []string{"Fiction", " fiction ", "", "Mystery"}}
	set := book.CategorySet()
	assert.Len(t, set, 2)
	assert.Contains(t, set, "fiction")
	assert.Contains(t, set, "mystery")
}

func TestVisualContextEmpty(t *testing.T) {
	var nilCtx *VisualContext
	assert.True(t, nilCtx.Empty())
	assert.True(t, (&VisualContext{}).Empty())
	assert.False(t, (&VisualContext{CoverStyle: "worn"}).Empty())
}
