package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderGrok = "grok"

	grokAPIURL = "https://api.x.ai/v1/chat/completions"
)

// GrokClient talks to the OpenAI-compatible chat completions endpoint of xAI.
type GrokClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func NewGrokClient(apiKey string, model string) (*GrokClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	return &GrokClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: grokAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *GrokClient) Name() string {
	return ProviderGrok
}

func (c *GrokClient) GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	messages := []map[string]string{}
	if opts.JSON {
		messages = append(messages, map[string]string{
			"role":    "system",
			"content": "You are a helpful assistant that only responds in JSON.",
		})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	reqBody := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": 0.7,
	}
	if opts.JSON {
		reqBody["response_format"] = map[string]string{"type": "json_object"}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("grok api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var grokResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grokResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(grokResp.Choices) == 0 || strings.TrimSpace(grokResp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}

	return grokResp.Choices[0].Message.Content, nil
}
