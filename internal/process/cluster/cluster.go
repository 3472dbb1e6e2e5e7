// Package cluster groups near-duplicate news titles by hierarchical
// agglomerative clustering with a distance cutoff.
package cluster

import (
	"context"
	"fmt"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
	"github.com/okorolenko/news-cluster-bot/internal/process/similarity"
)

// Clusterer partitions entries into clusters of similar titles.
type Clusterer struct {
	engine similarity.Engine
}

// New creates a Clusterer over the given similarity engine.
func New(engine similarity.Engine) *Clusterer {
	return &Clusterer{engine: engine}
}

// Cluster partitions entries by title similarity. Two items may merge only
// while their average-linkage distance stays below 1−threshold; the number
// of clusters is determined entirely by that cutoff. Entries keep their
// first-seen order within each cluster and every entry lands in exactly one
// cluster.
func (c *Clusterer) Cluster(ctx context.Context, entries []domain.Entry, threshold float64) (map[int][]domain.Entry, error) {
	clusters := make(map[int][]domain.Entry)

	if len(entries) == 0 {
		return clusters, nil
	}

	if len(entries) == 1 {
		clusters[0] = []domain.Entry{entries[0]}
		return clusters, nil
	}

	titles := make([]string, len(entries))
	for i, entry := range entries {
		titles[i] = entry.Title
	}

	matrix, err := c.engine.Similarity(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("compute similarity: %w", err)
	}

	distance := toDistance(matrix)
	labels := AverageLinkage(distance, 1-threshold)

	for i, label := range labels {
		clusters[label] = append(clusters[label], entries[i])
	}

	return clusters, nil
}

// toDistance converts a similarity matrix to distance = 1 − similarity.
func toDistance(similarityMatrix [][]float64) [][]float64 {
	distance := make([][]float64, len(similarityMatrix))
	for i, row := range similarityMatrix {
		distance[i] = make([]float64, len(row))
		for j, sim := range row {
			distance[i][j] = 1 - sim
		}
	}

	return distance
}

// AverageLinkage merges clusters bottom-up while the minimum average
// pairwise distance between two clusters stays below the cutoff, then
// returns one label per input index. Labels are numbered by first
// occurrence, so the labeling is deterministic for a given matrix: ties in
// linkage distance resolve to the lowest index pair.
//
// The routine is independent of the similarity source, so it can be
// exercised with synthetic matrices.
func AverageLinkage(distance [][]float64, cutoff float64) []int {
	n := len(distance)
	if n == 0 {
		return nil
	}

	// Working copy: linkage distances between active clusters, updated with
	// the Lance-Williams formula for average linkage.
	linkage := make([][]float64, n)
	for i := range linkage {
		linkage[i] = make([]float64, n)
		copy(linkage[i], distance[i])
	}

	active := make([]bool, n)
	size := make([]int, n)
	root := make([]int, n)

	for i := range active {
		active[i] = true
		size[i] = 1
		root[i] = i
	}

	for {
		lo, hi, minDist := closestPair(linkage, active)
		if lo < 0 || minDist >= cutoff {
			break
		}

		// Merge hi into lo, keeping the lower index as the surviving id.
		for k := 0; k < n; k++ {
			if !active[k] || k == lo || k == hi {
				continue
			}

			merged := (float64(size[lo])*linkage[lo][k] + float64(size[hi])*linkage[hi][k]) /
				float64(size[lo]+size[hi])
			linkage[lo][k] = merged
			linkage[k][lo] = merged
		}

		size[lo] += size[hi]
		active[hi] = false

		for i := range root {
			if root[i] == hi {
				root[i] = lo
			}
		}
	}

	return renumber(root)
}

// closestPair scans active cluster pairs in index order and returns the pair
// with the minimum linkage distance.
func closestPair(linkage [][]float64, active []bool) (int, int, float64) {
	lo, hi := -1, -1
	minDist := 0.0

	for i := range linkage {
		if !active[i] {
			continue
		}

		for j := i + 1; j < len(linkage); j++ {
			if !active[j] {
				continue
			}

			if lo < 0 || linkage[i][j] < minDist {
				lo, hi, minDist = i, j, linkage[i][j]
			}
		}
	}

	return lo, hi, minDist
}

// renumber maps cluster roots to consecutive labels in first-seen order.
func renumber(root []int) []int {
	labels := make([]int, len(root))
	next := 0
	mapping := make(map[int]int)

	for i, r := range root {
		label, ok := mapping[r]
		if !ok {
			label = next
			mapping[r] = label
			next++
		}

		labels[i] = label
	}

	return labels
}
