package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// langchainClient adapts any langchaingo chat model to the Client contract.
type langchainClient struct {
	model     llms.Model
	provider  string
	modelName string
}

func (c *langchainClient) Generate(ctx context.Context, system string, user string) (string, error) {

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(800),
		llms.WithTemperature(0.7),
	)
	if err != nil {
		return "", errors.Wrapf(err, "%v request failed", c.provider)
	}

	if len(resp.Choices) == 0 {
		return "", errors.Errorf("%v returned no choices", c.provider)
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func (c *langchainClient) Provider() string { return c.provider }

func (c *langchainClient) Model() string { return c.modelName }
