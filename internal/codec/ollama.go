package codec

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	ollama "github.com/ollama/ollama/api"
)

// ollamaChatter is the slice of the Ollama client used here.
type ollamaChatter interface {
	Chat(ctx context.Context, req *ollama.ChatRequest, fn ollama.ChatResponseFunc) error
}

// OllamaGenerator runs the persona against a local Ollama model.
type OllamaGenerator struct {
	client ollamaChatter
	model  string
	opts   Options
}

// NewOllamaGenerator connects using OLLAMA_HOST (default http://localhost:11434).
func NewOllamaGenerator(model string, opts Options) (*OllamaGenerator, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}
	return &OllamaGenerator{client: client, model: model, opts: opts}, nil
}

func newOllamaGeneratorWithClient(client ollamaChatter, model string, opts Options) *OllamaGenerator {
	return &OllamaGenerator{client: client, model: model, opts: opts}
}

// Generate returns the assembled streamed reply.
func (g *OllamaGenerator) Generate(ctx context.Context, system string, history []dialogue.Message) (string, error) {
	return g.Stream(ctx, system, history, nil)
}

// Stream forwards each chunk to onText while assembling the reply.
func (g *OllamaGenerator) Stream(ctx context.Context, system string, history []dialogue.Message, onText func(string) error) (string, error) {
	wire := toWire(system, history)
	messages := make([]ollama.Message, len(wire))
	for i, m := range wire {
		messages[i] = ollama.Message{Role: m.Role, Content: m.Content}
	}

	req := &ollama.ChatRequest{
		Model:    g.model,
		Messages: messages,
		Options: map[string]interface{}{
			"num_predict": g.opts.MaxTokens,
			"temperature": g.opts.Temperature,
		},
	}

	var content strings.Builder
	err := g.client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		if res.Message.Content == "" {
			return nil
		}
		content.WriteString(res.Message.Content)
		if onText != nil {
			return onText(res.Message.Content)
		}
		return nil
	})
	if err != nil {
		return content.String(), fmt.Errorf("ollama chat failed: %w", err)
	}
	if content.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return content.String(), nil
}
