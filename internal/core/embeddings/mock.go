package embeddings

import (
	"context"
	"hash/fnv"
	"math"
)

// LCG constants for deterministic pseudo-random vector generation.
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407

	seedShift  = 33
	floatScale = 0x40000000

	mockDimensions = 64
)

// MockClient generates deterministic embeddings from a text hash. Identical
// texts always map to identical unit vectors, which is enough for exercising
// the semantic similarity path in tests without a network dependency.
type MockClient struct {
	dimensions int
}

// NewMock creates a mock embedding client.
func NewMock() *MockClient {
	return &MockClient{dimensions: mockDimensions}
}

func (m *MockClient) Embeddings(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.encode(text)
	}

	return vectors, nil
}

func (m *MockClient) encode(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, m.dimensions)
	for i := range vec {
		seed = seed*lcgMultiplier + lcgIncrement
		vec[i] = float32(int64(seed>>seedShift)-floatScale) / float32(floatScale)
	}

	return normalize(vec)
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	if sum == 0 {
		return vec
	}

	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}

	return vec
}
