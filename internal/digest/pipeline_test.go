package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
	"github.com/okorolenko/news-cluster-bot/internal/output/render"
	"github.com/okorolenko/news-cluster-bot/internal/process/cluster"
	"github.com/okorolenko/news-cluster-bot/internal/process/recency"
	"github.com/okorolenko/news-cluster-bot/internal/process/similarity"
)

type stubFetcher struct {
	entries []domain.Entry
}

func (s stubFetcher) Fetch(context.Context, string, string, string) []domain.Entry {
	return s.entries
}

type failingClusterer struct{}

func (failingClusterer) Cluster(context.Context, []domain.Entry, float64) (map[int][]domain.Entry, error) {
	return nil, errors.New("matrix exploded")
}

func newTestPipeline(entries []domain.Entry) *Pipeline {
	logger := zerolog.Nop()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	return New(
		stubFetcher{entries: entries},
		recency.New(48*time.Hour, recency.WithClock(func() time.Time { return now })),
		cluster.New(similarity.NewLexical()),
		render.New(render.DefaultBudget, 5, 10),
		0.5,
		10,
		&logger,
	)
}

func recentEntry(title, link string) domain.Entry {
	return domain.Entry{
		Title:     title,
		Link:      link,
		Source:    "Wire",
		Published: time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC),
	}
}

func TestRun_NoEntriesFetched(t *testing.T) {
	p := newTestPipeline(nil)

	_, err := p.Run(context.Background(), "anything", "US", "en")
	assert.ErrorIs(t, err, ErrNoNews)
}

func TestRun_AllEntriesStale(t *testing.T) {
	stale := domain.Entry{
		Title:     "Old story",
		Link:      "https://e/old",
		Published: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}

	p := newTestPipeline([]domain.Entry{stale})

	result, err := p.Run(context.Background(), "anything", "US", "en")
	assert.ErrorIs(t, err, ErrNoNews)
	assert.Equal(t, 1, result.Fetched)
}

func TestRun_EndToEnd(t *testing.T) {
	p := newTestPipeline([]domain.Entry{
		recentEntry("Rain expected tomorrow", "https://e/1"),
		recentEntry("Tomorrow rain expected", "https://e/2"),
		recentEntry("Stock market rallies", "https://e/3"),
	})

	result, err := p.Run(context.Background(), "weather", "US", "en")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 3, result.Recent)
	assert.Equal(t, 2, result.Clusters)
	require.Len(t, result.Pages, 1)

	assert.Contains(t, result.Pages[0], "Rain expected tomorrow")
	assert.Contains(t, result.Pages[0], "Mixed Articles")
	assert.Contains(t, result.Pages[0], "Stock market rallies")
}

func TestRun_OnlySingletonsYieldsPlaceholder(t *testing.T) {
	p := newTestPipeline([]domain.Entry{
		recentEntry("Completely unique story", "https://e/1"),
		recentEntry("Unrelated other report", "https://e/2"),
	})

	result, err := p.Run(context.Background(), "misc", "US", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{`No clustered news found\.`}, result.Pages)
}

func TestRun_ClustererFailureIsWrapped(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	p := New(
		stubFetcher{entries: []domain.Entry{recentEntry("A story", "https://e/1")}},
		recency.New(48*time.Hour, recency.WithClock(func() time.Time { return now })),
		failingClusterer{},
		render.New(render.DefaultBudget, 5, 10),
		0.5,
		10,
		&logger,
	)

	_, err := p.Run(context.Background(), "anything", "US", "en")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoNews)
	assert.Contains(t, err.Error(), "matrix exploded")
}
