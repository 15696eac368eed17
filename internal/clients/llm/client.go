package llm

import (
	"context"

	"github.com/maxaizer/jobmatch/internal/config"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrUnavailable is returned by the no-op client. Running without any LLM
// provider is a supported configuration; callers are expected to fall back to
// rule-based output instead of treating this as a failure.
var ErrUnavailable = errors.New("no llm provider configured")

// Client is the language-model collaborator: a system instruction plus user
// content in, free text out.
type Client interface {
	Generate(ctx context.Context, system string, user string) (string, error)
	Provider() string
	Model() string
}

const (
	defaultOpenAIModel    = "gpt-3.5-turbo"
	defaultAnthropicModel = "claude-3-haiku-20240307"
	defaultOllamaModel    = "llama2"
)

// NewFromConfig selects a provider in fixed preference order: OpenAI, then
// Anthropic, then a local Ollama server, then the no-op client.
func NewFromConfig(cfg config.AIConfig) Client {

	if cfg.OpenAIKey != "" {
		model := cfg.OpenAIModel
		if model == "" {
			model = defaultOpenAIModel
		}
		client, err := openai.New(openai.WithToken(cfg.OpenAIKey), openai.WithModel(model))
		if err == nil {
			log.Infof("using OpenAI model %v for LLM analysis", model)
			return &langchainClient{model: client, provider: "openai", modelName: model}
		}
		log.Warnf("failed to create OpenAI client: %v", err)
	}

	if cfg.AnthropicKey != "" {
		model := cfg.AnthropicModel
		if model == "" {
			model = defaultAnthropicModel
		}
		client, err := anthropic.New(anthropic.WithToken(cfg.AnthropicKey), anthropic.WithModel(model))
		if err == nil {
			log.Infof("using Anthropic model %v for LLM analysis", model)
			return &langchainClient{model: client, provider: "anthropic", modelName: model}
		}
		log.Warnf("failed to create Anthropic client: %v", err)
	}

	if cfg.OllamaURL != "" {
		model := cfg.OllamaModel
		if model == "" {
			model = defaultOllamaModel
		}
		client, err := ollama.New(ollama.WithServerURL(cfg.OllamaURL), ollama.WithModel(model))
		if err == nil {
			log.Infof("using Ollama model %v for LLM analysis", model)
			return &langchainClient{model: client, provider: "ollama", modelName: model}
		}
		log.Warnf("failed to create Ollama client: %v", err)
	}

	log.Warn("no LLM provider available - AI analysis will be limited")
	return &noopClient{}
}

type noopClient struct{}

func (c *noopClient) Generate(_ context.Context, _ string, _ string) (string, error) {
	return "", ErrUnavailable
}

func (c *noopClient) Provider() string { return "" }

func (c *noopClient) Model() string { return "" }
