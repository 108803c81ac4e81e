package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-harness/internal/codec"
	"github.com/danielpatrickdp/persona-harness/internal/replay"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PERSONA_DB", "PERSONA_LOG_FILE", "GENERATOR", "LLM_ENDPOINT", "LLM_MODEL", "LLM_API_KEY",
		"LLM_STREAM", "ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "OLLAMA_MODEL", "CODEC_ADDR",
		"NATS_URL", "NATS_TOKEN", "CORS_ORIGINS", "MAX_TOKENS", "TEMPERATURE", "API_PORT",
		"HARNESS_WORKERS", "PERSONA_DISABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "http://localhost:11434/v1", cfg.LLMEndpoint)
	require.Equal(t, "llama3", cfg.LLMModel)
	require.Equal(t, 400, cfg.MaxTokens)
	require.Equal(t, 3001, cfg.APIPort)
	require.Equal(t, replay.DefaultThresholds(), cfg.Thresholds)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("GENERATOR", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MAX_TOKENS", "256")
	t.Setenv("TEMPERATURE", "0.2")
	t.Setenv("HARNESS_WORKERS", "4")
	t.Setenv("PERSONA_DISABLED", "1")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendAnthropic, cfg.Generator)
	require.Equal(t, 256, cfg.MaxTokens)
	require.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	require.Equal(t, 4, cfg.Workers)
	require.True(t, cfg.PersonaDisabled)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"MAX_TOKENS", "lots"},
		{"API_PORT", "http"},
		{"PERSONA_DISABLED", "maybe"},
		{"TEMPERATURE", "warm"},
		{"HARNESS_WORKERS", "0"},
		{"GENERATOR", "carrier-pigeon"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harness.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
generator = "ollama"
ollama_model = "mistral:latest"
workers = 3

[thresholds]
min_gate1_pass = 0.9
max_golden_fails = 1
`), 0o644))

	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))
	require.Equal(t, BackendOllama, cfg.Generator)
	require.Equal(t, "mistral:latest", cfg.OllamaModel)
	require.Equal(t, 3, cfg.Workers)
	require.InDelta(t, 0.9, cfg.Thresholds.MinGate1Pass, 1e-9)
	require.Equal(t, 1, cfg.Thresholds.MaxGoldenFails)
	// untouched keys keep their defaults
	require.InDelta(t, 0.8, cfg.Thresholds.MinGate2Pass, 1e-9)
	require.Equal(t, "llama3", cfg.LLMModel)
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := Default()
	require.ErrorContains(t, LoadFile(filepath.Join(t.TempDir(), "missing.toml"), &cfg), "read config")

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("generator = [unterminated"), 0o644))
	require.ErrorContains(t, LoadFile(path, &cfg), "parse config")
}

func TestNewGenerator(t *testing.T) {
	cfg := Default()
	gen, closeFn, err := cfg.NewGenerator()
	require.NoError(t, err)
	require.NoError(t, closeFn())
	_, ok := gen.(*codec.OpenAIGenerator)
	require.True(t, ok, "expected OpenAI generator, got %T", gen)
	require.Equal(t, "openai:llama3", cfg.GeneratorLabel())

	cfg.Generator = BackendAnthropic
	_, _, err = cfg.NewGenerator()
	require.ErrorContains(t, err, "ANTHROPIC_API_KEY")

	cfg.AnthropicAPIKey = "sk-test"
	gen, _, err = cfg.NewGenerator()
	require.NoError(t, err)
	_, ok = gen.(*codec.AnthropicGenerator)
	require.True(t, ok)
}
