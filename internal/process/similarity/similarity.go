// Package similarity computes pairwise similarity matrices over news titles.
//
// Two interchangeable engines implement the same contract: a semantic one
// backed by a dense sentence encoder and a lexical TF-IDF fallback. Callers
// select an engine at startup and observe only the Engine contract, never
// which variant ran.
package similarity

import "context"

// Engine produces a pairwise similarity matrix over titles.
// The matrix is square, symmetric, has a unit diagonal and values in [0,1].
// An empty title list yields an empty matrix.
type Engine interface {
	Similarity(ctx context.Context, titles []string) ([][]float64, error)
}

// identityMatrix returns the n×n matrix with unit diagonal, the shared
// starting point for both engines.
func identityMatrix(n int) [][]float64 {
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	return matrix
}

// clamp01 clips a similarity value into [0,1]. Floating point noise can push
// cosine values marginally outside the range.
func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
