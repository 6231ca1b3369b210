package llm

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlehane/shelfscout/internal/model"
)

func makeLibrary(count int) []model.Book {
	library := make([]model.Book, count)
	for i := range library {
		library[i] = model.Book{
			GoogleBooksID: fmt.Sprintf("vol%03d", i),
			Title:         fmt.Sprintf("Book %d", i),
		}
	}
	return library
}

func TestSampleLibrary_SmallLibraryPassesThrough(t *testing.T) {
	library := makeLibrary(10)
	sampled := SampleLibrary(library, "user1")

	require.Len(t, sampled, 10)
	for i := 1; i < len(sampled); i++ {
		assert.Less(t, sampled[i-1].ID(), sampled[i].ID())
	}
}

func TestSampleLibrary_CapsLargeLibrary(t *testing.T) {
	library := makeLibrary(200)
	sampled := SampleLibrary(library, "user1")
	assert.Len(t, sampled, maxSampledBooks)
}

func TestSampleLibrary_DeterministicPerUser(t *testing.T) {
	library := makeLibrary(200)

	first := SampleLibrary(library, "user1")
	second := SampleLibrary(library, "user1")
	assert.Equal(t, first, second)

	other := SampleLibrary(library, "user2")
	assert.NotEqual(t, first, other)
}

func TestSampleLibrary_OrderIndependent(t *testing.T) {
	library := makeLibrary(200)

	shuffled := make([]model.Book, len(library))
	copy(shuffled, library)
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assert.Equal(t, SampleLibrary(library, "user1"), SampleLibrary(shuffled, "user1"))
}

func TestSampleLibrary_DoesNotMutateInput(t *testing.T) {
	library := makeLibrary(200)
	original := make([]model.Book, len(library))
	copy(original, library)

	SampleLibrary(library, "user1")
	assert.Equal(t, original, library)
}
