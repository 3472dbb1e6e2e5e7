package embeddings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/okorolenko/news-cluster-bot/internal/platform/observability"
)

const (
	// DefaultDimensions matches text-embedding-3-small output.
	DefaultDimensions = 1536

	defaultModel     = "text-embedding-3-small"
	rateLimiterBurst = 5

	maxSmallDimensions = 1536
)

// ErrEmptyResponse indicates the provider returned no vectors.
var ErrEmptyResponse = errors.New("empty embedding response")

type openaiClient struct {
	cfg     Config
	limiter *rate.Limiter

	once   sync.Once
	client *openai.Client
}

func newOpenAIClient(cfg Config) *openaiClient {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}

	return &openaiClient{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), rateLimiterBurst),
	}
}

// api initializes the underlying SDK client on first use.
func (c *openaiClient) api() *openai.Client {
	c.once.Do(func() {
		c.client = openai.NewClient(c.cfg.APIKey)
	})

	return c.client
}

func (c *openaiClient) Embeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limiter: %w", err)
	}

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.cfg.Model),
	}

	if c.cfg.Dimensions > 0 && c.cfg.Dimensions < maxSmallDimensions {
		req.Dimensions = c.cfg.Dimensions
	}

	resp, err := c.api().CreateEmbeddings(ctx, req)
	if err != nil {
		observability.EmbeddingRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		observability.EmbeddingRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmptyResponse, len(resp.Data), len(texts))
	}

	observability.EmbeddingRequests.WithLabelValues("ok").Inc()

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		vectors[item.Index] = item.Embedding
	}

	return vectors, nil
}
