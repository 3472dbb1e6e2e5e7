// Package embeddings provides dense vector encoding for news titles.
//
// The encoder is a heavyweight, stateless-after-load resource: it is
// constructed once at startup, initialized lazily on first use, and is safe
// for concurrent reuse across requests.
package embeddings

import "context"

// Client encodes texts into fixed-dimension dense vectors.
type Client interface {
	// Embeddings returns one vector per input text, in input order.
	Embeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds configuration for creating an embedding client.
type Config struct {
	APIKey     string
	Model      string
	Dimensions int
	RateLimit  int // requests per second
}

// New creates an embedding client, or nil when no provider is configured.
// Callers treat a nil client as "semantic encoder unavailable" and select
// the lexical similarity engine instead.
func New(cfg Config) Client {
	if cfg.APIKey == "" {
		return nil
	}

	return newOpenAIClient(cfg)
}
