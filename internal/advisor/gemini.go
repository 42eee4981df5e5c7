package advisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ProviderGemini = "gemini"

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a Gemini client for the given model.
func NewGeminiClient(ctx context.Context, apiKey string, modelName string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (c *GeminiClient) Name() string {
	return ProviderGemini
}

func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(0.7)
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if isGeminiRateLimit(err) {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	if builder.Len() == 0 {
		return "", fmt.Errorf("%w: generated content is not text", ErrEmptyResponse)
	}
	return builder.String(), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func isGeminiRateLimit(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	if status.Code(err) == codes.ResourceExhausted {
		return true
	}
	return strings.Contains(err.Error(), "429")
}
