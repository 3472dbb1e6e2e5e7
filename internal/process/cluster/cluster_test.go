package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
	"github.com/okorolenko/news-cluster-bot/internal/process/similarity"
)

func entriesFromTitles(titles ...string) []domain.Entry {
	entries := make([]domain.Entry, len(titles))
	for i, title := range titles {
		entries[i] = domain.Entry{Title: title, Link: title}
	}

	return entries
}

func TestAverageLinkage_SyntheticMatrix(t *testing.T) {
	// Items 0 and 1 are close, item 2 is far from both.
	distance := [][]float64{
		{0, 0.2, 0.9},
		{0.2, 0, 0.8},
		{0.9, 0.8, 0},
	}

	labels := AverageLinkage(distance, 0.5)

	require.Len(t, labels, 3)
	assert.Equal(t, labels[0], labels[1])
	assert.NotEqual(t, labels[0], labels[2])
}

func TestAverageLinkage_AverageMergeRule(t *testing.T) {
	// 0-1 merge first (0.1). The merged pair's average distance to 2 is
	// (0.4+0.8)/2 = 0.6, so with cutoff 0.5 item 2 stays out even though
	// d(0,2)=0.4 alone would be under the cutoff.
	distance := [][]float64{
		{0, 0.1, 0.4},
		{0.1, 0, 0.8},
		{0.4, 0.8, 0},
	}

	labels := AverageLinkage(distance, 0.5)

	assert.Equal(t, labels[0], labels[1])
	assert.NotEqual(t, labels[0], labels[2])

	// With a laxer cutoff the average of 0.6 is allowed.
	labels = AverageLinkage(distance, 0.7)
	assert.Equal(t, labels[0], labels[2])
}

func TestAverageLinkage_CutoffIsExclusive(t *testing.T) {
	distance := [][]float64{
		{0, 0.5},
		{0.5, 0},
	}

	labels := AverageLinkage(distance, 0.5)
	assert.NotEqual(t, labels[0], labels[1], "distance equal to cutoff must not merge")
}

func TestAverageLinkage_Empty(t *testing.T) {
	assert.Nil(t, AverageLinkage(nil, 0.5))
}

func TestCluster_Degenerate(t *testing.T) {
	c := New(similarity.NewLexical())

	clusters, err := c.Cluster(context.Background(), nil, 0.5)
	require.NoError(t, err)
	assert.Empty(t, clusters)

	clusters, err = c.Cluster(context.Background(), entriesFromTitles("lonely headline"), 0.5)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "lonely headline", clusters[0][0].Title)
}

func TestCluster_GroupsNearDuplicates(t *testing.T) {
	c := New(similarity.NewLexical())

	entries := entriesFromTitles(
		"Rain expected tomorrow",
		"Tomorrow rain expected",
		"Stock market rallies",
	)

	clusters, err := c.Cluster(context.Background(), entries, 0.5)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	var pair, single []domain.Entry

	for _, members := range clusters {
		switch len(members) {
		case 2:
			pair = members
		case 1:
			single = members
		}
	}

	require.Len(t, pair, 2)
	assert.Equal(t, "Rain expected tomorrow", pair[0].Title)
	assert.Equal(t, "Tomorrow rain expected", pair[1].Title)
	require.Len(t, single, 1)
	assert.Equal(t, "Stock market rallies", single[0].Title)
}

func TestCluster_PartitionInvariant(t *testing.T) {
	c := New(similarity.NewLexical())

	entries := entriesFromTitles(
		"Central bank raises rates",
		"Bank raises interest rates",
		"Local team wins championship",
		"Champions crowned after final win",
		"Weather warning issued for coast",
	)

	clusters, err := c.Cluster(context.Background(), entries, 0.3)
	require.NoError(t, err)

	seen := make(map[string]int)

	for _, members := range clusters {
		for _, entry := range members {
			seen[entry.Link]++
		}
	}

	require.Len(t, seen, len(entries), "every entry appears")

	for link, count := range seen {
		assert.Equal(t, 1, count, "entry %s must appear exactly once", link)
	}
}

func TestCluster_ThresholdMonotonicity(t *testing.T) {
	c := New(similarity.NewLexical())

	entries := entriesFromTitles(
		"Rain expected tomorrow",
		"Tomorrow rain expected",
		"Rain likely tomorrow morning",
		"Stock market rallies",
		"Markets rally on stock news",
	)

	maxSize := func(clusters map[int][]domain.Entry) int {
		largest := 0
		for _, members := range clusters {
			if len(members) > largest {
				largest = len(members)
			}
		}

		return largest
	}

	loose, err := c.Cluster(context.Background(), entries, 0.2)
	require.NoError(t, err)

	strict, err := c.Cluster(context.Background(), entries, 0.8)
	require.NoError(t, err)

	assert.LessOrEqual(t, maxSize(strict), maxSize(loose),
		"raising the threshold never grows clusters")
}

func TestCluster_FirstSeenOrderWithinCluster(t *testing.T) {
	c := New(similarity.NewLexical())

	entries := entriesFromTitles(
		"Stock market rallies",
		"Rain expected tomorrow",
		"Tomorrow rain expected",
	)

	clusters, err := c.Cluster(context.Background(), entries, 0.5)
	require.NoError(t, err)

	for _, members := range clusters {
		if len(members) == 2 {
			assert.Equal(t, "Rain expected tomorrow", members[0].Title)
			assert.Equal(t, "Tomorrow rain expected", members[1].Title)
		}
	}
}
