package codec

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
)

// #endregion imports

// #region client-struct

// OpenAIGenerator talks to any OpenAI-compatible /chat/completions endpoint
// (local Ollama's /v1, OpenRouter-style gateways).
type OpenAIGenerator struct {
	baseURL string
	apiKey  string
	model   string
	opts    Options
	stream  bool
	client  *http.Client
}

// NewOpenAIGenerator creates a generator for baseURL, e.g. http://localhost:11434/v1.
// With stream set, Generate folds the server-sent event stream.
func NewOpenAIGenerator(baseURL, apiKey, model string, opts Options, stream bool) *OpenAIGenerator {
	return &OpenAIGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		opts:    opts,
		stream:  stream,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// #endregion client-struct

// #region wire-types

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// #endregion wire-types

// #region generate

// Generate returns the assembled reply.
func (g *OpenAIGenerator) Generate(ctx context.Context, system string, history []dialogue.Message) (string, error) {
	if g.stream {
		return g.Stream(ctx, system, history, nil)
	}

	resp, err := g.post(ctx, system, history, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}

// Stream requests a streamed completion and folds its deltas.
func (g *OpenAIGenerator) Stream(ctx context.Context, system string, history []dialogue.Message, onText func(string) error) (string, error) {
	resp, err := g.post(ctx, system, history, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := FoldSSE(resp.Body, DecodeOpenAIDelta, onText)
	if err != nil {
		return text, fmt.Errorf("stream: %w", err)
	}
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *OpenAIGenerator) post(ctx context.Context, system string, history []dialogue.Message, stream bool) (*http.Response, error) {
	body, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    toWire(system, history),
		Stream:      stream,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

// #endregion generate
