package llm

import (
	"context"
	"time"

	"github.com/mlehane/shelfscout/internal/model"
)

// Client defines the capability set of one model backend. Methods return the
// backend's raw textual response; parsing and validation happen in the
// repair layer, never inside an adapter.
type Client interface {
	// Name identifies the provider in logs and error messages.
	Name() string
	// Available reports whether credentials are configured. It must not
	// perform network I/O.
	Available() bool
	// ExtractTitlesFromImage sends the versioned extraction prompt plus the
	// image and returns the raw response text.
	ExtractTitlesFromImage(ctx context.Context, image []byte) (string, error)
	// CalculateBatchMatchScores sends a single prompt covering all
	// candidates and returns the raw response text.
	CalculateBatchMatchScores(ctx context.Context, candidates []model.CandidateBook, library []model.Book) (string, error)
}

// Config holds provider configuration. Only key presence is inspected here;
// secret storage is the caller's concern.
type Config struct {
	Provider string

	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	GeminiModel    string
	OpenAIModel    string
	AnthropicModel string

	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

const defaultTimeout = 10 * time.Second

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// detectImageMediaType sniffs the raster format from magic bytes,
// defaulting to JPEG.
func detectImageMediaType(image []byte) string {
	switch {
	case len(image) > 4 && string(image[:4]) == "\x89PNG":
		return "image/png"
	case len(image) > 3 && string(image[:3]) == "GIF":
		return "image/gif"
	case len(image) > 12 && string(image[8:12]) == "WEBP":
		return "image/webp"
	}
	return "image/jpeg"
}
