package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danielpatrickdp/persona-harness/internal/replay"
)

// #region config-struct

// Config is the runtime configuration shared by every binary.
type Config struct {
	DBPath  string `toml:"db"`
	LogFile string `toml:"log_file"`

	// Generator backend: openai | anthropic | ollama | grpc
	Generator       string  `toml:"generator"`
	LLMEndpoint     string  `toml:"llm_endpoint"`
	LLMModel        string  `toml:"llm_model"`
	LLMAPIKey       string  `toml:"llm_api_key"`
	LLMStream       bool    `toml:"llm_stream"`
	AnthropicAPIKey string  `toml:"anthropic_api_key"`
	AnthropicModel  string  `toml:"anthropic_model"`
	OllamaModel     string  `toml:"ollama_model"`
	CodecAddr       string  `toml:"codec_addr"`
	MaxTokens       int     `toml:"max_tokens"`
	Temperature     float64 `toml:"temperature"`

	APIPort     int      `toml:"api_port"`
	CORSOrigins []string `toml:"cors_origins"`

	NATSURL   string `toml:"nats_url"`
	NATSToken string `toml:"nats_token"`

	Workers         int  `toml:"workers"`
	PersonaDisabled bool `toml:"persona_disabled"`

	Thresholds replay.Thresholds `toml:"thresholds"`
}

// Backends.
const (
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendOllama    = "ollama"
	BackendGRPC      = "grpc"
)

// #endregion config-struct

// #region defaults

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		DBPath:         "persona_harness.db",
		Generator:      BackendOpenAI,
		LLMEndpoint:    "http://localhost:11434/v1",
		LLMModel:       "llama3",
		AnthropicModel: "claude-3-5-haiku-latest",
		OllamaModel:    "llama3:latest",
		CodecAddr:      "localhost:50051",
		MaxTokens:      400,
		Temperature:    0.7,
		APIPort:        3001,
		CORSOrigins:    []string{"http://localhost:3000"},
		Workers:        1,
		Thresholds:     replay.DefaultThresholds(),
	}
}

// #endregion defaults

// #region load

// Load reads the configuration from the environment on top of Default.
// Malformed numeric or boolean values are reported, not silently ignored.
func Load() (Config, error) {
	cfg := Default()
	cfg.DBPath = envOr("PERSONA_DB", cfg.DBPath)
	cfg.LogFile = envOr("PERSONA_LOG_FILE", cfg.LogFile)
	cfg.Generator = strings.ToLower(envOr("GENERATOR", cfg.Generator))
	cfg.LLMEndpoint = envOr("LLM_ENDPOINT", cfg.LLMEndpoint)
	cfg.LLMModel = envOr("LLM_MODEL", cfg.LLMModel)
	cfg.LLMAPIKey = envOr("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.AnthropicModel = envOr("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.OllamaModel = envOr("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.CodecAddr = envOr("CODEC_ADDR", cfg.CodecAddr)
	cfg.NATSURL = envOr("NATS_URL", cfg.NATSURL)
	cfg.NATSToken = envOr("NATS_TOKEN", cfg.NATSToken)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	var err error
	if cfg.LLMStream, err = envBool("LLM_STREAM", cfg.LLMStream); err != nil {
		return cfg, err
	}
	if cfg.PersonaDisabled, err = envBool("PERSONA_DISABLED", cfg.PersonaDisabled); err != nil {
		return cfg, err
	}
	if cfg.MaxTokens, err = envInt("MAX_TOKENS", cfg.MaxTokens); err != nil {
		return cfg, err
	}
	if cfg.APIPort, err = envInt("API_PORT", cfg.APIPort); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = envInt("HARNESS_WORKERS", cfg.Workers); err != nil {
		return cfg, err
	}
	if v := os.Getenv("TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("TEMPERATURE: %w", err)
		}
		cfg.Temperature = t
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays a TOML file onto cfg. Keys absent from the file keep
// their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Generator = strings.ToLower(cfg.Generator)
	return cfg.Validate()
}

// Validate checks the fields that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Generator {
	case BackendOpenAI, BackendAnthropic, BackendOllama, BackendGRPC:
	default:
		return fmt.Errorf("unknown generator backend %q", c.Generator)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	return nil
}

// #endregion load

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// #endregion helpers
