package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// AIConfig configures the embedding model and the optional LLM providers.
// The embedding key is required; every LLM provider key is optional — running
// with no LLM at all is a supported configuration, not an error.
type AIConfig struct {
	GeminiKey                 string  `mapstructure:"gemini_key"`
	EmbeddingModel            string  `mapstructure:"embedding_model"`
	EmbedMaxRequestsPerMinute float32 `mapstructure:"embed_max_requests_per_minute"`
	EmbedMaxRequestsPerDay    float32 `mapstructure:"embed_max_requests_per_day"`

	OpenAIKey      string `mapstructure:"openai_key"`
	OpenAIModel    string `mapstructure:"openai_model"`
	AnthropicKey   string `mapstructure:"anthropic_key"`
	AnthropicModel string `mapstructure:"anthropic_model"`
	OllamaURL      string `mapstructure:"ollama_url"`
	OllamaModel    string `mapstructure:"ollama_model"`
}

func (config AIConfig) validate() error {
	var errs []error

	if config.GeminiKey == "" {
		errs = append(errs, fmt.Errorf("missing required variable: gemini_key"))
	}
	if config.EmbeddingModel == "" {
		errs = append(errs, fmt.Errorf("missing required variable: embedding_model"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config AIConfig) bindEnvironmentVariables() error {
	bindings := map[string]string{
		"ai.gemini_key":                    "GEMINI_KEY",
		"ai.embedding_model":               "EMBEDDING_MODEL",
		"ai.embed_max_requests_per_minute": "EMBED_MAX_REQUESTS_PER_MINUTE",
		"ai.embed_max_requests_per_day":    "EMBED_MAX_REQUESTS_PER_DAY",
		"ai.openai_key":                    "OPENAI_API_KEY",
		"ai.openai_model":                  "OPENAI_MODEL",
		"ai.anthropic_key":                 "ANTHROPIC_API_KEY",
		"ai.anthropic_model":               "ANTHROPIC_MODEL",
		"ai.ollama_url":                    "OLLAMA_BASE_URL",
		"ai.ollama_model":                  "OLLAMA_MODEL",
	}

	var errs []error
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
