// Package render formats topic clusters into MarkdownV2 message pages that
// fit under the Telegram per-message length ceiling.
package render

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
)

// Field truncation limits, in characters.
const (
	maxHeadingChars = 120
	maxTitleChars   = 100
	maxSourceChars  = 30
)

const (
	// DefaultBudget leaves headroom under the 4096-character transport limit.
	DefaultBudget = 3900

	dividerWidth     = 35
	escapedEllipsis  = `\.\.\.`
	mixedHeading     = "Mixed Articles"
	noClustersText   = "No clustered news found."
	noNewsText       = "No news found for your query."
	singletonHeading = "*%s*\n\n"
)

// Formatter renders clusters into an ordered sequence of pages.
type Formatter struct {
	budget        int
	maxArticles   int
	maxSingletons int
}

// New creates a Formatter. The budget is the per-page character limit; the
// other limits cap articles rendered per cluster and singletons in the
// trailing mixed section.
func New(budget, maxArticles, maxSingletons int) *Formatter {
	if budget <= 0 {
		budget = DefaultBudget
	}

	if maxArticles <= 0 {
		maxArticles = 5
	}

	if maxSingletons <= 0 {
		maxSingletons = 10
	}

	return &Formatter{
		budget:        budget,
		maxArticles:   maxArticles,
		maxSingletons: maxSingletons,
	}
}

// Format renders up to maxClusters multi-member clusters plus a trailing
// singleton section into pages, each at most the configured budget. With no
// multi-member clusters it returns a single placeholder page.
func (f *Formatter) Format(clusters map[int][]domain.Entry, maxClusters int) []string {
	multi, singletons := splitBySize(clusters)

	if len(multi) == 0 {
		return []string{EscapeText(noClustersText)}
	}

	if maxClusters > 0 && len(multi) > maxClusters {
		multi = multi[:maxClusters]
	}

	p := newPaginator(f.budget)

	for _, members := range multi {
		p.append(f.clusterBlock(members))
	}

	if len(singletons) > 0 {
		p.append(f.singletonBlock(singletons))
	}

	pages := p.pages()
	if len(pages) == 0 {
		return []string{EscapeText(noNewsText)}
	}

	return pages
}

// splitBySize orders clusters by member count descending (label ascending on
// ties, so map iteration order never leaks into the output) and separates
// multi-member clusters from singletons.
func splitBySize(clusters map[int][]domain.Entry) ([][]domain.Entry, []domain.Entry) {
	labels := make([]int, 0, len(clusters))
	for label := range clusters {
		labels = append(labels, label)
	}

	sort.Slice(labels, func(i, j int) bool {
		li, lj := labels[i], labels[j]
		if len(clusters[li]) != len(clusters[lj]) {
			return len(clusters[li]) > len(clusters[lj])
		}

		return li < lj
	})

	var (
		multi      [][]domain.Entry
		singletons []domain.Entry
	)

	for _, label := range labels {
		members := clusters[label]
		if len(members) > 1 {
			multi = append(multi, members)
		} else if len(members) == 1 {
			singletons = append(singletons, members[0])
		}
	}

	return multi, singletons
}

// clusterBlock renders one multi-member cluster: the first member's title as
// heading, then up to maxArticles linked member articles.
func (f *Formatter) clusterBlock(members []domain.Entry) string {
	var sb strings.Builder

	heading := truncate(members[0].Title, maxHeadingChars)
	fmt.Fprintf(&sb, "*%s*\n\n", EscapeText(heading))

	shown := members
	if len(shown) > f.maxArticles {
		shown = shown[:f.maxArticles]
	}

	for _, article := range shown {
		writeArticle(&sb, article)
	}

	if remaining := len(members) - f.maxArticles; remaining > 0 {
		fmt.Fprintf(&sb, "  _%sand %d more related articles_\n\n", escapedEllipsis, remaining)
	}

	writeDivider(&sb)

	return sb.String()
}

// singletonBlock renders the trailing section of unclustered articles.
func (f *Formatter) singletonBlock(singletons []domain.Entry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, singletonHeading, EscapeText(mixedHeading))

	shown := singletons
	if len(shown) > f.maxSingletons {
		shown = shown[:f.maxSingletons]
	}

	for _, article := range shown {
		writeArticle(&sb, article)
	}

	if remaining := len(singletons) - f.maxSingletons; remaining > 0 {
		fmt.Fprintf(&sb, "  _%sand %d more articles_\n\n", escapedEllipsis, remaining)
	}

	writeDivider(&sb)

	return sb.String()
}

// writeArticle renders one article as an escaped, truncated title linked to
// its stripped URL with a source attribution line.
func writeArticle(sb *strings.Builder, article domain.Entry) {
	title := EscapeText(truncate(article.Title, maxTitleChars))
	source := EscapeText(truncate(article.Source, maxSourceChars))
	url := strings.TrimSpace(article.Link)

	fmt.Fprintf(sb, "  • [%s](%s)\n", title, url)
	fmt.Fprintf(sb, "    _via %s_\n\n", source)
}

func writeDivider(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("─", dividerWidth))
	sb.WriteString("\n\n")
}

// truncate limits a string to n characters, not bytes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)

	return string(runes[:n])
}

// paginator accumulates rendered blocks into pages, closing the current page
// whenever appending a block would push it over the budget.
type paginator struct {
	budget  int
	current strings.Builder
	closed  []string
}

func newPaginator(budget int) *paginator {
	return &paginator{budget: budget}
}

func (p *paginator) append(block string) {
	if p.current.Len() > 0 &&
		utf8.RuneCountInString(p.current.String())+utf8.RuneCountInString(block) > p.budget {
		p.closed = append(p.closed, p.current.String())
		p.current.Reset()
	}

	p.current.WriteString(block)
}

func (p *paginator) pages() []string {
	pages := p.closed
	if p.current.Len() > 0 {
		pages = append(pages, p.current.String())
	}

	return pages
}
