package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/giovassz/inventario/internal/adapters/config"
	"github.com/giovassz/inventario/internal/core/port"
)

const maxErrorBodySize = 4 * 1024

// OpenRouterClient speaks the OpenAI-style chat-completion wire format
// exposed by OpenRouter. The model name and credentials are fixed at
// construction; callers supply only messages and sampling parameters.
type OpenRouterClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewOpenRouterClient(cfg config.LLMConfig) port.LLMPort {
	return &OpenRouterClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

type chatCompletionRequest struct {
	Model       string             `json:"model"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []port.ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenRouterClient) Complete(ctx context.Context, request port.ChatRequest) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
		Messages:    request.Messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode chat completion response: %w", err)
	}

	// a well-formed response with no choices is treated as an empty
	// completion, not an error
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
