package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/okorolenko/news-cluster-bot/internal/core/embeddings"
)

// SemanticEngine computes cosine similarity over dense title embeddings.
// When the encoder fails at runtime it degrades to the lexical engine for
// that request, so callers always get a matrix satisfying the contract.
type SemanticEngine struct {
	client   embeddings.Client
	fallback *LexicalEngine
	logger   *zerolog.Logger
}

// NewSemantic creates a semantic similarity engine around an encoder client.
func NewSemantic(client embeddings.Client, logger *zerolog.Logger) *SemanticEngine {
	return &SemanticEngine{
		client:   client,
		fallback: NewLexical(),
		logger:   logger,
	}
}

// Select returns the semantic engine when an encoder is available and the
// lexical engine otherwise. The choice happens once at startup.
func Select(client embeddings.Client, logger *zerolog.Logger) Engine {
	if client == nil {
		logger.Info().Msg("no embedding encoder configured, using lexical similarity")
		return NewLexical()
	}

	logger.Info().Msg("using semantic similarity with lexical fallback")

	return NewSemantic(client, logger)
}

func (e *SemanticEngine) Similarity(ctx context.Context, titles []string) ([][]float64, error) {
	n := len(titles)
	if n == 0 {
		return [][]float64{}, nil
	}

	vectors, err := e.client.Embeddings(ctx, titles)
	if err != nil {
		e.logger.Warn().Err(err).Msg("embedding encoder failed, falling back to lexical similarity")
		return e.fallback.Similarity(ctx, titles)
	}

	if len(vectors) != n {
		return nil, fmt.Errorf("encoder returned %d vectors for %d titles", len(vectors), n)
	}

	matrix := identityMatrix(n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := clamp01(denseCosine(vectors[i], vectors[j]))
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}

	return matrix, nil
}

// denseCosine computes cosine similarity between two dense vectors.
func denseCosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
