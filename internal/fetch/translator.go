package fetch

import (
	"fmt"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
)

const customSourceKey = "source"

// sourceTranslator extends the default RSS translation to keep the item
// <source> element, which Google News uses for the publisher name and which
// the generic gofeed item otherwise discards.
type sourceTranslator struct {
	defaultTranslator *gofeed.DefaultRSSTranslator
}

func newSourceTranslator() *sourceTranslator {
	return &sourceTranslator{defaultTranslator: &gofeed.DefaultRSSTranslator{}}
}

func (t *sourceTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	rssFeed, ok := feed.(*rss.Feed)
	if !ok {
		return nil, fmt.Errorf("unexpected feed type %T", feed)
	}

	translated, err := t.defaultTranslator.Translate(rssFeed)
	if err != nil {
		return nil, err
	}

	for i, item := range rssFeed.Items {
		if i >= len(translated.Items) {
			break
		}

		if item.Source != nil && item.Source.Title != "" {
			if translated.Items[i].Custom == nil {
				translated.Items[i].Custom = make(map[string]string)
			}

			translated.Items[i].Custom[customSourceKey] = item.Source.Title
		}
	}

	return translated, nil
}
