package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
)

const anthropicURL = "https://api.anthropic.com/v1/messages"

// AnthropicGenerator calls the Anthropic Messages API.
type AnthropicGenerator struct {
	apiKey string
	model  string
	url    string
	opts   Options
	client *http.Client
}

func NewAnthropicGenerator(apiKey, model string, opts Options) *AnthropicGenerator {
	return &AnthropicGenerator{
		apiKey: apiKey,
		model:  model,
		url:    anthropicURL,
		opts:   opts,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// SetBaseURL points the generator at a different endpoint (tests, proxies).
func (g *AnthropicGenerator) SetBaseURL(url string) {
	g.url = url
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the conversation with the system prompt in the dedicated field.
func (g *AnthropicGenerator) Generate(ctx context.Context, system string, history []dialogue.Message) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:       g.model,
		MaxTokens:   g.opts.MaxTokens,
		System:      system,
		Messages:    toWire("", history),
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicError
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Type != "" {
			return "", fmt.Errorf("api error %d: %s: %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	var out anthropicResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Content) == 0 || out.Content[0].Text == "" {
		return "", ErrEmptyResponse
	}
	return out.Content[0].Text, nil
}
