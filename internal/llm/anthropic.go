package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mlehane/shelfscout/internal/model"
)

const anthropicEndpoint = "https://api.anthropic.com/v1/messages"

// anthropicClient implements the Client interface for the Anthropic API.
type anthropicClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// newAnthropicClient creates a new Anthropic API client. A missing key is
// not an error; it just makes the provider unavailable for fallback.
func newAnthropicClient(cfg Config) *anthropicClient {
	mdl := cfg.AnthropicModel
	if mdl == "" {
		mdl = "claude-3-5-haiku-20241022"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	return &anthropicClient{
		apiKey:      cfg.AnthropicAPIKey,
		model:       mdl,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *anthropicClient) Name() string { return "anthropic" }

func (c *anthropicClient) Available() bool { return c.apiKey != "" }

// ExtractTitlesFromImage sends the extraction prompt plus the image to
// Claude and returns the raw response text.
func (c *anthropicClient) ExtractTitlesFromImage(ctx context.Context, image []byte) (string, error) {
	content := []map[string]any{
		{
			"type": "image",
			"source": map[string]any{
				"type":       "base64",
				"media_type": detectImageMediaType(image),
				"data":       base64.StdEncoding.EncodeToString(image),
			},
		},
		{
			"type": "text",
			"text": buildExtractionPrompt(),
		},
	}

	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": 0.2,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	return c.complete(ctx, requestBody)
}

// CalculateBatchMatchScores sends a single scoring prompt covering all
// candidates and returns the raw response text.
func (c *anthropicClient) CalculateBatchMatchScores(ctx context.Context, candidates []model.CandidateBook, library []model.Book) (string, error) {
	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"messages": []map[string]any{
			{"role": "user", "content": buildBatchScorePrompt(candidates, library)},
		},
	}

	return c.complete(ctx, requestBody)
}

func (c *anthropicClient) complete(ctx context.Context, requestBody map[string]any) (string, error) {
	if c.apiKey == "" {
		return "", newProviderError(c.Name(), FailureUnavailable, fmt.Errorf("anthropic API key is required"))
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", newProviderError(c.Name(), FailureNetwork, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicEndpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", newProviderError(c.Name(), FailureNetwork, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newProviderError(c.Name(), FailureNetwork, fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newProviderError(c.Name(), FailureNetwork, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", newProviderError(c.Name(), FailureNetwork,
			fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(body)))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", newProviderError(c.Name(), FailureInvalidResponse, fmt.Errorf("failed to parse response: %w", err))
	}

	if len(response.Content) == 0 || strings.TrimSpace(response.Content[0].Text) == "" {
		return "", newProviderError(c.Name(), FailureInvalidResponse, fmt.Errorf("no content in response"))
	}

	return strings.TrimSpace(response.Content[0].Text), nil
}

// anthropicResponse represents the Anthropic API response structure.
type anthropicResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Role       string `json:"role"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
