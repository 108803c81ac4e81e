package codec

import (
	"context"
	"errors"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
)

// ErrEmptyResponse is returned when a backend answers without any text.
var ErrEmptyResponse = errors.New("empty response")

// #region interfaces

// Generator produces one assistant reply for a system prompt and a conversation.
type Generator interface {
	Generate(ctx context.Context, system string, history []dialogue.Message) (string, error)
}

// StreamGenerator is a Generator that can also deliver the reply incrementally.
// onText receives each fragment; the assembled text is returned.
type StreamGenerator interface {
	Generator
	Stream(ctx context.Context, system string, history []dialogue.Message, onText func(string) error) (string, error)
}

// Searcher looks up passages related to a query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, similarityThreshold float32) ([]SearchResult, error)
}

// #endregion interfaces

// #region types

// SearchResult holds a single passage returned by a Searcher.
type SearchResult struct {
	ID           string
	Text         string
	Score        float32
	MetadataJSON string
}

// Options tunes sampling for every backend.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// DefaultOptions matches the persona's short-reply budget.
func DefaultOptions() Options {
	return Options{MaxTokens: 400, Temperature: 0.7}
}

// wireMessage is the role/content shape shared by the chat-style HTTP APIs.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toWire(system string, history []dialogue.Message) []wireMessage {
	out := make([]wireMessage, 0, len(history)+1)
	if system != "" {
		out = append(out, wireMessage{Role: string(dialogue.RoleSystem), Content: system})
	}
	for _, m := range history {
		out = append(out, wireMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// #endregion types

// #region func-adapter

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, system string, history []dialogue.Message) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, system string, history []dialogue.Message) (string, error) {
	return f(ctx, system, history)
}

// #endregion func-adapter
