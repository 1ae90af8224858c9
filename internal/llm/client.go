// Package llm provides generative text provider clients and the ordered
// fallback chain used for all generation calls.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Options configures a single generation call.
type Options struct {
	// SystemInstruction constrains the model's behavior for the call.
	SystemInstruction string
	// Temperature controls sampling randomness. JSON generation uses the
	// deterministic low-temperature mode.
	Temperature float32
}

// Client is an abstraction over generative text providers.
type Client interface {
	// GenerateContent generates free text for a prompt.
	GenerateContent(ctx context.Context, prompt string, opts Options) (string, error)
	// GenerateJSON generates structured JSON output for a prompt in
	// deterministic low-temperature mode.
	GenerateJSON(ctx context.Context, prompt string, opts Options) (string, error)
	// Name identifies the provider for tracing and metrics.
	Name() string
	// Close releases any resources held by the client.
	Close() error
}

// jsonTemperature is the deterministic low-temperature mode used for
// structured output.
const jsonTemperature = 0.1

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Name identifies the provider.
func (c *GeminiClient) Name() string {
	return string(ProviderGemini)
}

// GenerateContent generates free text for a prompt.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, opts Options) (string, error) {
	model := c.generativeModel(opts)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateJSON generates structured JSON output in deterministic mode.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, opts Options) (string, error) {
	opts.Temperature = jsonTemperature
	model := c.generativeModel(opts)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	return CleanJSONBlock(text), nil
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// generativeModel builds the model handle with per-call options applied.
func (c *GeminiClient) generativeModel(opts Options) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(opts.Temperature)
	if opts.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(opts.SystemInstruction)},
		}
	}
	return model
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
