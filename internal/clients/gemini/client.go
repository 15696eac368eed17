package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type Model string

const (
	//ModelTextEmbedding004 is the current text embedding model with 768-dimensional output
	ModelTextEmbedding004 Model = "text-embedding-004"
	//ModelEmbedding001 is the first-generation embedding model kept for cache compatibility
	ModelEmbedding001 Model = "embedding-001"
)

var modelDimensions = map[Model]int{
	ModelTextEmbedding004: 768,
	ModelEmbedding001:     768,
}

// Client wraps the Gemini embedding API behind the embedding-model collaborator
// contract: single and batched UTF-8 text in, fixed-dimension vectors out.
type Client struct {
	client            *genai.Client
	model             *genai.EmbeddingModel
	modelName         Model
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model) (*Client, error) {

	if _, ok := modelDimensions[model]; !ok {
		return nil, fmt.Errorf("unknown embedding model: %v", model)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	service := Client{
		client:    client,
		model:     client.EmbeddingModel(string(model)),
		modelName: model,
	}

	return &service, nil
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
}

func (c *Client) ModelName() string {
	return string(c.modelName)
}

func (c *Client) Dimension() int {
	return modelDimensions[c.modelName]
}

func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {

	var vector []float32
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("gemini api returned 500 error, retrying...")
		}
		vector, err = c.waitAndEmbed(ctx, text)
		return err, isInternalError(err)
	})

	return vector, err
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {

	var vectors [][]float32
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("gemini api returned 500 error, retrying...")
		}
		vectors, err = c.waitAndEmbedBatch(ctx, texts)
		return err, isInternalError(err)
	})

	return vectors, err
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) waitAndEmbed(ctx context.Context, text string) ([]float32, error) {

	if err := c.waitForLimiters(ctx); err != nil {
		return nil, err
	}

	resp, err := c.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("response contains no embedding")
	}
	return resp.Embedding.Values, nil
}

func (c *Client) waitAndEmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {

	if err := c.waitForLimiters(ctx); err != nil {
		return nil, err
	}

	batch := c.model.NewBatch()
	for _, text := range texts {
		batch = batch.AddContent(genai.Text(text))
	}

	resp, err := c.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %v embeddings, got %v", len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(texts))
	for i, embedding := range resp.Embeddings {
		vectors[i] = embedding.Values
	}
	return vectors, nil
}

func (c *Client) waitForLimiters(ctx context.Context) error {
	limiters := []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter}
	for _, limiter := range limiters {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Error 500")
}
