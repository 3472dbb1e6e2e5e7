package similarity

import (
	"context"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// TF-IDF vectorizer bounds over word n-grams.
const (
	minNgram = 1
	maxNgram = 3

	// maxDocFreq drops terms occurring in more than this share of documents.
	maxDocFreq = 0.8
)

// LexicalEngine computes cosine similarity over TF-IDF vectors built from
// word n-grams of length 1–3. It needs no external resources and serves as
// the fallback when no semantic encoder is configured.
type LexicalEngine struct {
	caser cases.Caser
}

// NewLexical creates a lexical similarity engine.
func NewLexical() *LexicalEngine {
	return &LexicalEngine{caser: cases.Fold()}
}

func (e *LexicalEngine) Similarity(_ context.Context, titles []string) ([][]float64, error) {
	n := len(titles)
	if n == 0 {
		return [][]float64{}, nil
	}

	docs := make([][]string, n)
	for i, title := range titles {
		docs[i] = e.tokenize(title)
	}

	vectors := vectorize(docs)

	matrix := identityMatrix(n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := clamp01(sparseCosine(vectors[i], vectors[j]))
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}

	return matrix, nil
}

// tokenize normalizes a title (collapse whitespace, case fold) and splits it
// into word tokens.
func (e *LexicalEngine) tokenize(title string) []string {
	normalized := e.caser.String(strings.Join(strings.Fields(title), " "))

	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// vectorize builds L2-normalized TF-IDF vectors over word n-grams with
// smoothed inverse document frequency.
func vectorize(docs [][]string) []map[string]float64 {
	n := len(docs)

	counts := make([]map[string]float64, n)
	docFreq := make(map[string]int)

	for i, tokens := range docs {
		counts[i] = termCounts(tokens)
		for term := range counts[i] {
			docFreq[term]++
		}
	}

	maxDF := maxDocFreq * float64(n)

	vectors := make([]map[string]float64, n)

	for i, tf := range counts {
		vec := make(map[string]float64, len(tf))

		for term, count := range tf {
			df := docFreq[term]
			if float64(df) > maxDF {
				continue
			}

			idf := math.Log(float64(1+n)/float64(1+df)) + 1
			vec[term] = count * idf
		}

		vectors[i] = l2Normalize(vec)
	}

	return vectors
}

func termCounts(tokens []string) map[string]float64 {
	tf := make(map[string]float64)

	for size := minNgram; size <= maxNgram; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			tf[strings.Join(tokens[i:i+size], " ")]++
		}
	}

	return tf
}

func l2Normalize(vec map[string]float64) map[string]float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}

	if sum == 0 {
		return vec
	}

	norm := math.Sqrt(sum)
	for term := range vec {
		vec[term] /= norm
	}

	return vec
}

// sparseCosine computes the dot product of two L2-normalized sparse vectors.
func sparseCosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64

	for term, va := range a {
		if vb, ok := b[term]; ok {
			dot += va * vb
		}
	}

	return dot
}
