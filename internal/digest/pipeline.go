// Package digest orchestrates the fetch → filter → cluster → format
// pipeline for one news request.
package digest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
	"github.com/okorolenko/news-cluster-bot/internal/platform/observability"
)

// ErrNoNews reports an empty entry set after fetching or filtering. Callers
// surface it as a user-visible "no news found" message, not a failure.
var ErrNoNews = errors.New("no news found")

// Fetcher retrieves merged, link-deduplicated entries for a topic.
type Fetcher interface {
	Fetch(ctx context.Context, topic, location, language string) []domain.Entry
}

// Filter drops stale entries.
type Filter interface {
	Apply(entries []domain.Entry) []domain.Entry
}

// Clusterer partitions entries into title clusters.
type Clusterer interface {
	Cluster(ctx context.Context, entries []domain.Entry, threshold float64) (map[int][]domain.Entry, error)
}

// Formatter renders clusters into message pages.
type Formatter interface {
	Format(clusters map[int][]domain.Entry, maxClusters int) []string
}

// Pipeline runs one request through the full processing chain. All state is
// per-run; a Pipeline is safe for concurrent use.
type Pipeline struct {
	fetcher     Fetcher
	filter      Filter
	clusterer   Clusterer
	formatter   Formatter
	threshold   float64
	maxClusters int
	logger      *zerolog.Logger
}

// Result carries the rendered pages and run statistics.
type Result struct {
	Pages    []string
	Fetched  int
	Recent   int
	Clusters int
}

// New creates a Pipeline.
func New(fetcher Fetcher, filter Filter, clusterer Clusterer, formatter Formatter, threshold float64, maxClusters int, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:     fetcher,
		filter:      filter,
		clusterer:   clusterer,
		formatter:   formatter,
		threshold:   threshold,
		maxClusters: maxClusters,
		logger:      logger,
	}
}

// Run fetches, filters, clusters and formats news for the given query.
// It returns ErrNoNews when nothing recent was found; any other error is an
// unexpected pipeline failure. No step is retried.
func (p *Pipeline) Run(ctx context.Context, topic, location, language string) (Result, error) {
	start := time.Now()
	defer func() {
		observability.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	logger := p.logger.With().
		Str("topic", topic).
		Str("location", location).
		Str("language", language).
		Logger()

	entries := p.fetcher.Fetch(ctx, topic, location, language)
	if len(entries) == 0 {
		observability.PipelineRuns.WithLabelValues("empty").Inc()
		logger.Info().Msg("no entries fetched")

		return Result{}, ErrNoNews
	}

	recent := p.filter.Apply(entries)
	if len(recent) == 0 {
		observability.PipelineRuns.WithLabelValues("empty").Inc()
		logger.Info().Int("fetched", len(entries)).Msg("no entries within recency window")

		return Result{Fetched: len(entries)}, ErrNoNews
	}

	clusters, err := p.clusterer.Cluster(ctx, recent, p.threshold)
	if err != nil {
		observability.PipelineRuns.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("cluster entries: %w", err)
	}

	observability.ClustersBuilt.Observe(float64(len(clusters)))

	pages := p.formatter.Format(clusters, p.maxClusters)

	observability.PipelineRuns.WithLabelValues("ok").Inc()
	logger.Info().
		Int("fetched", len(entries)).
		Int("recent", len(recent)).
		Int("clusters", len(clusters)).
		Int("pages", len(pages)).
		Dur("took", time.Since(start)).
		Msg("pipeline run complete")

	return Result{
		Pages:    pages,
		Fetched:  len(entries),
		Recent:   len(recent),
		Clusters: len(clusters),
	}, nil
}
