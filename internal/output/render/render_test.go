package render

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
)

func entry(title, link, source string) domain.Entry {
	return domain.Entry{Title: title, Link: link, Source: source}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"period and bang", "Hello. World!", `Hello\. World\!`},
		{"brackets and parens", "a[b](c)", `a\[b\]\(c\)`},
		{"full reserved set", "_*[]()~`>#+-=|{}.!", "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
		{"plain text untouched", "nothing special here", "nothing special here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeText(tt.in))
		})
	}
}

func TestEscapeText_EveryReservedCharBecomesEscapeSequence(t *testing.T) {
	reserved := "_*[]()~`>#+-=|{}.!"

	escaped := EscapeText("x" + reserved + "x")

	for _, r := range reserved {
		assert.Contains(t, escaped, `\`+string(r))
		assert.NotContains(t, strings.ReplaceAll(escaped, `\`+string(r), ""), string(r),
			"char %q must only appear escaped", r)
	}
}

func TestFormat_NoMultiMemberClusters(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	pages := f.Format(map[int][]domain.Entry{}, 10)
	assert.Equal(t, []string{`No clustered news found\.`}, pages)

	// Singletons alone do not count as clustered news.
	pages = f.Format(map[int][]domain.Entry{
		0: {entry("Lonely", "https://e/1", "Wire")},
	}, 10)
	assert.Equal(t, []string{`No clustered news found\.`}, pages)
}

func TestFormat_HeadingEscaped(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	clusters := map[int][]domain.Entry{
		0: {
			entry("Big news. Really!", "https://e/1", "Wire"),
			entry("Really big news", "https://e/2", "AP"),
		},
	}

	pages := f.Format(clusters, 10)
	require.Len(t, pages, 1)

	assert.Contains(t, pages[0], `*Big news\. Really\!*`)
}

func TestFormat_ArticleRendering(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	clusters := map[int][]domain.Entry{
		0: {
			entry("First story", "  https://e/1  ", "Reuters"),
			entry("Second story", "https://e/2", "AP News"),
		},
	}

	pages := f.Format(clusters, 10)
	require.Len(t, pages, 1)

	// URL is stripped and left unescaped inside the link parens.
	assert.Contains(t, pages[0], "• [First story](https://e/1)")
	assert.Contains(t, pages[0], "_via Reuters_")
	assert.Contains(t, pages[0], "• [Second story](https://e/2)")
}

func TestFormat_TruncatesLongFields(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	longTitle := strings.Repeat("a", 150)
	longSource := strings.Repeat("s", 40)

	clusters := map[int][]domain.Entry{
		0: {
			entry(longTitle, "https://e/1", longSource),
			entry("short", "https://e/2", "Wire"),
		},
	}

	pages := f.Format(clusters, 10)
	require.Len(t, pages, 1)

	assert.Contains(t, pages[0], "*"+strings.Repeat("a", 120)+"*")
	assert.NotContains(t, pages[0], strings.Repeat("a", 121))
	assert.Contains(t, pages[0], "["+strings.Repeat("a", 100)+"]")
	assert.Contains(t, pages[0], "_via "+strings.Repeat("s", 30)+"_")
	assert.NotContains(t, pages[0], strings.Repeat("s", 31))
}

func TestFormat_MoreArticlesNote(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	members := make([]domain.Entry, 8)
	for i := range members {
		members[i] = entry(fmt.Sprintf("Story variant %d", i), fmt.Sprintf("https://e/%d", i), "Wire")
	}

	pages := f.Format(map[int][]domain.Entry{0: members}, 10)
	require.Len(t, pages, 1)

	assert.Contains(t, pages[0], `\.\.\.and 3 more related articles`)
}

func TestFormat_SortsClustersBySizeDescending(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	clusters := map[int][]domain.Entry{
		0: {
			entry("Pair story", "https://e/1", "Wire"),
			entry("Pair story again", "https://e/2", "Wire"),
		},
		1: {
			entry("Trio story", "https://e/3", "Wire"),
			entry("Trio story again", "https://e/4", "Wire"),
			entry("Trio story thrice", "https://e/5", "Wire"),
		},
	}

	pages := f.Format(clusters, 10)
	require.Len(t, pages, 1)

	assert.Less(t, strings.Index(pages[0], "Trio story"), strings.Index(pages[0], "Pair story"))
}

func TestFormat_MixedArticlesSection(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	clusters := map[int][]domain.Entry{
		0: {
			entry("Cluster story", "https://e/1", "Wire"),
			entry("Cluster story again", "https://e/2", "Wire"),
		},
		1: {entry("Odd one out", "https://e/3", "AP")},
		2: {entry("Another loner", "https://e/4", "AFP")},
	}

	pages := f.Format(clusters, 10)
	require.Len(t, pages, 1)

	assert.Contains(t, pages[0], "*Mixed Articles*")
	assert.Contains(t, pages[0], "Odd one out")
	assert.Contains(t, pages[0], "Another loner")
	// Singletons come after the clustered section.
	assert.Less(t, strings.Index(pages[0], "Cluster story"), strings.Index(pages[0], "Mixed Articles"))
}

func TestFormat_SingletonOverflowNote(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	clusters := map[int][]domain.Entry{
		0: {
			entry("Cluster story", "https://e/1", "Wire"),
			entry("Cluster story again", "https://e/2", "Wire"),
		},
	}

	for i := 0; i < 13; i++ {
		clusters[i+1] = []domain.Entry{
			entry(fmt.Sprintf("Loner %d", i), fmt.Sprintf("https://s/%d", i), "Wire"),
		}
	}

	pages := f.Format(clusters, 10)
	require.Len(t, pages, 1)

	assert.Contains(t, pages[0], `\.\.\.and 3 more articles`)
}

func TestFormat_MaxClustersCap(t *testing.T) {
	f := New(DefaultBudget, 5, 10)

	clusters := make(map[int][]domain.Entry)
	for i := 0; i < 4; i++ {
		clusters[i] = []domain.Entry{
			entry(fmt.Sprintf("Topic %d first", i), fmt.Sprintf("https://e/%d-1", i), "Wire"),
			entry(fmt.Sprintf("Topic %d second", i), fmt.Sprintf("https://e/%d-2", i), "Wire"),
		}
	}

	pages := f.Format(clusters, 2)
	joined := strings.Join(pages, "")

	rendered := 0
	for i := 0; i < 4; i++ {
		if strings.Contains(joined, fmt.Sprintf("Topic %d", i)) {
			rendered++
		}
	}

	assert.Equal(t, 2, rendered, "only maxClusters clusters rendered")
}

func TestFormat_PaginationBound(t *testing.T) {
	budget := 600
	f := New(budget, 5, 10)

	clusters := make(map[int][]domain.Entry)
	for i := 0; i < 12; i++ {
		clusters[i] = []domain.Entry{
			entry(fmt.Sprintf("A fairly long headline about subject %d goes here", i),
				fmt.Sprintf("https://example.com/articles/%d", i), "Newswire Agency"),
			entry(fmt.Sprintf("Another angle on subject %d from elsewhere", i),
				fmt.Sprintf("https://example.org/%d", i), "Second Source"),
		}
	}

	pages := f.Format(clusters, 0)
	require.Greater(t, len(pages), 1, "content must spill across pages")

	for i, page := range pages {
		assert.LessOrEqual(t, utf8.RuneCountInString(page), budget, "page %d exceeds budget", i)
		assert.NotEmpty(t, page)
	}

	// Concatenated pages contain every cluster exactly once.
	joined := strings.Join(pages, "")
	for i := 0; i < 12; i++ {
		assert.Equal(t, 1, strings.Count(joined, fmt.Sprintf("subject %d goes here", i)))
	}
}
