// Package domain defines the entities flowing through the news pipeline.
//
// All entities are created fresh per user request and discarded once the
// rendered pages are handed to the delivery layer.
package domain

import "time"

// SourceUnknown is used when a feed entry carries no source attribution.
const SourceUnknown = "Unknown"

// Entry is a single news article as fetched from a feed.
// Link is the unique key within one request.
type Entry struct {
	Title     string
	Link      string
	Published time.Time
	// PublishedRaw keeps the feed's original timestamp string for entries
	// the feed library could not parse; the recency filter retries it with
	// a looser parser before dropping the entry.
	PublishedRaw string
	Source       string
}

// HasPublished reports whether the entry carries a parsed publish time.
func (e Entry) HasPublished() bool {
	return !e.Published.IsZero()
}

// Cluster is an ordered group of entries assigned the same label.
// Entries keep their first-seen order from the fetched set.
type Cluster struct {
	ID      int
	Entries []Entry
}

// Size returns the number of member entries.
func (c Cluster) Size() int {
	return len(c.Entries)
}

// Representative returns the first member, which heads the rendered block.
func (c Cluster) Representative() Entry {
	return c.Entries[0]
}

// Preferences is the per-chat configuration record kept in the store.
type Preferences struct {
	ChatID    int64
	Topic     string
	Location  string
	Language  string
	Automatic bool
	UpdatedAt time.Time
}
