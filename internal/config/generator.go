package config

import (
	"fmt"

	"github.com/danielpatrickdp/persona-harness/internal/codec"
)

// NewGenerator builds the configured backend. The returned close func
// releases connections and is never nil.
func (c Config) NewGenerator() (codec.Generator, func() error, error) {
	opts := codec.Options{MaxTokens: c.MaxTokens, Temperature: c.Temperature}
	noop := func() error { return nil }

	switch c.Generator {
	case BackendOpenAI:
		return codec.NewOpenAIGenerator(c.LLMEndpoint, c.LLMAPIKey, c.LLMModel, opts, c.LLMStream), noop, nil
	case BackendAnthropic:
		if c.AnthropicAPIKey == "" {
			return nil, noop, fmt.Errorf("anthropic backend needs ANTHROPIC_API_KEY")
		}
		return codec.NewAnthropicGenerator(c.AnthropicAPIKey, c.AnthropicModel, opts), noop, nil
	case BackendOllama:
		g, err := codec.NewOllamaGenerator(c.OllamaModel, opts)
		if err != nil {
			return nil, noop, err
		}
		return g, noop, nil
	case BackendGRPC:
		g, err := codec.NewGRPCGenerator(c.CodecAddr)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to generator service at %s: %w", c.CodecAddr, err)
		}
		return g, g.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown generator backend %q", c.Generator)
}

// GeneratorLabel names the backend and model for run records.
func (c Config) GeneratorLabel() string {
	switch c.Generator {
	case BackendAnthropic:
		return c.Generator + ":" + c.AnthropicModel
	case BackendOllama:
		return c.Generator + ":" + c.OllamaModel
	case BackendGRPC:
		return c.Generator + ":" + c.CodecAddr
	}
	return c.Generator + ":" + c.LLMModel
}
