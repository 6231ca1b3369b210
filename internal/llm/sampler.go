package llm

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/mlehane/shelfscout/internal/model"
)

// maxSampledBooks bounds how much of the library goes into a prompt.
const maxSampledBooks = 50

// SampleLibrary returns a bounded subset of the library for prompting. The
// selection is fully determined by the user id: the same user with the same
// library contents (in any order) gets the same ordered subset on every
// call. That stability is what keeps cache keys and scores consistent; the
// shuffle is not meant to be statistically random.
func SampleLibrary(library []model.Book, userID string) []model.Book {
	sampled := make([]model.Book, len(library))
	copy(sampled, library)

	// Sort before shuffling so ingestion order cannot perturb the sample.
	sort.Slice(sampled, func(i, j int) bool {
		return sampled[i].ID() < sampled[j].ID()
	})

	if len(sampled) <= maxSampledBooks {
		return sampled
	}

	rng := rand.New(rand.NewSource(seedFromUserID(userID))) //nolint:gosec // deterministic sampling, not security
	rng.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})

	return sampled[:maxSampledBooks]
}

// seedFromUserID derives a stable numeric seed from the user identifier.
func seedFromUserID(userID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID))
	return int64(h.Sum64()) //nolint:gosec // truncation is fine for a seed
}
