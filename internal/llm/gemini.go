package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mlehane/shelfscout/internal/model"
)

// geminiClient implements the Client interface for Google Gemini through the
// generative-ai-go SDK.
type geminiClient struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// newGeminiClient creates a new Gemini client.
func newGeminiClient(cfg Config) *geminiClient {
	mdl := cfg.GeminiModel
	if mdl == "" {
		mdl = "gemini-2.0-flash"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	return &geminiClient{
		apiKey:      cfg.GeminiAPIKey,
		model:       mdl,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     cfg.timeout(),
	}
}

func (c *geminiClient) Name() string { return "gemini" }

func (c *geminiClient) Available() bool { return c.apiKey != "" }

// ExtractTitlesFromImage sends the extraction prompt plus the image to
// Gemini and returns the raw response text.
func (c *geminiClient) ExtractTitlesFromImage(ctx context.Context, image []byte) (string, error) {
	format := strings.TrimPrefix(detectImageMediaType(image), "image/")
	return c.generate(ctx, genai.ImageData(format, image), genai.Text(buildExtractionPrompt()))
}

// CalculateBatchMatchScores sends a single scoring prompt covering all
// candidates and returns the raw response text.
func (c *geminiClient) CalculateBatchMatchScores(ctx context.Context, candidates []model.CandidateBook, library []model.Book) (string, error) {
	return c.generate(ctx, genai.Text(buildBatchScorePrompt(candidates, library)))
}

func (c *geminiClient) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	if c.apiKey == "" {
		return "", newProviderError(c.Name(), FailureUnavailable, fmt.Errorf("gemini API key is required"))
	}

	// The SDK has no per-request timeout knob, so bound the call here the
	// same way the HTTP clients bound theirs.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", newProviderError(c.Name(), FailureNetwork, fmt.Errorf("failed to create gemini client: %w", err))
	}
	defer func() { _ = client.Close() }()

	mdl := client.GenerativeModel(c.model)
	mdl.SetTemperature(float32(c.temperature))
	mdl.SetMaxOutputTokens(int32(c.maxTokens))

	resp, err := mdl.GenerateContent(ctx, parts...)
	if err != nil {
		return "", newProviderError(c.Name(), FailureNetwork, fmt.Errorf("failed to generate content: %w", err))
	}

	if len(resp.Candidates) == 0 {
		return "", newProviderError(c.Name(), FailureInvalidResponse, fmt.Errorf("no candidates returned"))
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", newProviderError(c.Name(), FailureInvalidResponse, fmt.Errorf("empty content returned"))
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok || strings.TrimSpace(string(txt)) == "" {
		return "", newProviderError(c.Name(), FailureInvalidResponse, fmt.Errorf("unexpected response format"))
	}

	return strings.TrimSpace(string(txt)), nil
}
