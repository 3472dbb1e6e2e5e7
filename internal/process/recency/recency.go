// Package recency drops entries published outside a trailing time window.
package recency

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
	"github.com/okorolenko/news-cluster-bot/internal/platform/observability"
)

// DefaultWindow is the trailing window applied when none is configured.
const DefaultWindow = 48 * time.Hour

// Filter retains entries whose publish time is strictly after now−window.
// Entries without a parsable publish time are treated as stale and dropped.
type Filter struct {
	window time.Duration
	now    func() time.Time
}

// Option customizes a Filter.
type Option func(*Filter)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Filter) {
		f.now = now
	}
}

// New creates a Filter with the given trailing window.
func New(window time.Duration, opts ...Option) *Filter {
	if window <= 0 {
		window = DefaultWindow
	}

	f := &Filter{
		window: window,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Apply filters the entries, preserving input order.
func (f *Filter) Apply(entries []domain.Entry) []domain.Entry {
	cutoff := f.now().UTC().Add(-f.window)

	recent := make([]domain.Entry, 0, len(entries))

	for _, entry := range entries {
		published, ok := publishedTime(entry)
		if !ok || !published.After(cutoff) {
			observability.EntriesFiltered.Inc()
			continue
		}

		recent = append(recent, entry)
	}

	return recent
}

// publishedTime resolves an entry's publish time in UTC. When the feed
// library could not parse the timestamp, the raw string is retried with a
// looser parser before the entry is given up on.
func publishedTime(entry domain.Entry) (time.Time, bool) {
	if entry.HasPublished() {
		return entry.Published.UTC(), true
	}

	if entry.PublishedRaw == "" {
		return time.Time{}, false
	}

	parsed, err := dateparse.ParseIn(entry.PublishedRaw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}

	return parsed.UTC(), true
}
