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

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// openAIClient implements the Client interface for the OpenAI API.
type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// newOpenAIClient creates a new OpenAI API client.
func newOpenAIClient(cfg Config) *openAIClient {
	mdl := cfg.OpenAIModel
	if mdl == "" {
		mdl = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	return &openAIClient{
		apiKey:      cfg.OpenAIAPIKey,
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

func (c *openAIClient) Name() string { return "openai" }

func (c *openAIClient) Available() bool { return c.apiKey != "" }

// ExtractTitlesFromImage sends the extraction prompt plus the image as a
// base64 data URL and returns the raw response text.
func (c *openAIClient) ExtractTitlesFromImage(ctx context.Context, image []byte) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		detectImageMediaType(image), base64.StdEncoding.EncodeToString(image))

	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": buildExtractionPrompt()},
					{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
		"temperature": 0.2,
		"max_tokens":  c.maxTokens,
	}

	return c.complete(ctx, requestBody)
}

// CalculateBatchMatchScores sends a single scoring prompt covering all
// candidates and returns the raw response text.
func (c *openAIClient) CalculateBatchMatchScores(ctx context.Context, candidates []model.CandidateBook, library []model.Book) (string, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{
				"role":    "system",
				"content": "You are a book recommendation expert. You MUST respond with ONLY a valid JSON array. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON.",
			},
			{
				"role":    "user",
				"content": buildBatchScorePrompt(candidates, library),
			},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	return c.complete(ctx, requestBody)
}

func (c *openAIClient) complete(ctx context.Context, requestBody map[string]any) (string, error) {
	if c.apiKey == "" {
		return "", newProviderError(c.Name(), FailureUnavailable, fmt.Errorf("OpenAI API key is required"))
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", newProviderError(c.Name(), FailureNetwork, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", newProviderError(c.Name(), FailureNetwork, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
			fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body)))
	}

	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", newProviderError(c.Name(), FailureInvalidResponse, fmt.Errorf("failed to parse response: %w", err))
	}

	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Message.Content) == "" {
		return "", newProviderError(c.Name(), FailureInvalidResponse, fmt.Errorf("no completion choices returned"))
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// openAIResponse represents the OpenAI API response structure.
type openAIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
