// Package fetch retrieves topical news entries from a Google News style
// RSS search endpoint.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
	"github.com/okorolenko/news-cluster-bot/internal/platform/observability"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "news-cluster-bot/1.0"

	headerUserAgent = "User-Agent"
)

// Fetcher issues feed queries and merges their results.
type Fetcher struct {
	baseURL         string
	defaultLocation string
	defaultLanguage string
	httpClient      *http.Client
	feedParser      *gofeed.Parser
	logger          *zerolog.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = client
	}
}

// New creates a Fetcher against the given feed search endpoint.
func New(baseURL, defaultLocation, defaultLanguage string, timeout time.Duration, logger *zerolog.Logger, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	parser := gofeed.NewParser()
	parser.RSSTranslator = newSourceTranslator()

	f := &Fetcher{
		baseURL:         baseURL,
		defaultLocation: defaultLocation,
		defaultLanguage: defaultLanguage,
		httpClient:      &http.Client{Timeout: timeout},
		feedParser:      parser,
		logger:          logger,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch queries the feed for three (location, language) combinations and
// merges the results in query order, deduplicating by link with the first
// occurrence winning. A failing query contributes zero entries; when every
// query fails the result is an empty set, not an error.
func (f *Fetcher) Fetch(ctx context.Context, topic, location, language string) []domain.Entry {
	combos := [][2]string{
		{location, language},
		{f.defaultLocation, language},
		{location, f.defaultLanguage},
	}

	var merged []domain.Entry

	seen := make(map[string]struct{})

	for _, combo := range combos {
		entries, err := f.query(ctx, topic, combo[0], combo[1])
		if err != nil {
			observability.FeedQueries.WithLabelValues("error").Inc()
			f.logger.Warn().Err(err).
				Str("topic", topic).
				Str("location", combo[0]).
				Str("language", combo[1]).
				Msg("feed query failed, skipping")

			continue
		}

		observability.FeedQueries.WithLabelValues("ok").Inc()

		for _, entry := range entries {
			if entry.Link == "" {
				continue
			}

			if _, ok := seen[entry.Link]; ok {
				continue
			}

			seen[entry.Link] = struct{}{}
			merged = append(merged, entry)
		}
	}

	observability.EntriesFetched.Add(float64(len(merged)))

	return merged
}

func (f *Fetcher) query(ctx context.Context, topic, location, language string) ([]domain.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.queryURL(topic, location, language), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(headerUserAgent, userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}

	feed, err := f.feedParser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]domain.Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, itemToEntry(item))
	}

	return entries, nil
}

func (f *Fetcher) queryURL(topic, location, language string) string {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("hl", language)
	params.Set("gl", location)
	params.Set("ceid", fmt.Sprintf("%s:%s", location, language))

	return f.baseURL + "?" + params.Encode()
}

func itemToEntry(item *gofeed.Item) domain.Entry {
	entry := domain.Entry{
		Title:        item.Title,
		Link:         item.Link,
		PublishedRaw: item.Published,
		Source:       domain.SourceUnknown,
	}

	if item.PublishedParsed != nil {
		entry.Published = *item.PublishedParsed
	}

	// Google News carries the publisher in the item source element; fall
	// back to the feed author when absent.
	if item.Custom != nil && item.Custom["source"] != "" {
		entry.Source = item.Custom["source"]
	} else if len(item.Authors) > 0 && item.Authors[0].Name != "" {
		entry.Source = item.Authors[0].Name
	}

	return entry
}
