package extract

import (
	"bytes"
	"fmt"

	"github.com/dreamerjackson/salesintel/record"
	"github.com/mmcdole/gofeed"
)

// GofeedParser understands RSS, Atom and JSON feeds but produces the same
// records as RegexFeedParser: same cap, defaults and truncation.
type GofeedParser struct {
	feedOptions
}

func NewGofeedParser(opts ...FeedOption) *GofeedParser {
	return &GofeedParser{feedOptions: newFeedOptions(opts)}
}

func (p *GofeedParser) Parse(body []byte, category string) ([]record.Record, error) {
	// gofeed.Parser keeps per-parse state.
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	n := len(feed.Items)
	if n > MaxFeedItems {
		n = MaxFeedItems
	}

	items := make([]record.Record, 0, n)
	for _, it := range feed.Items[:n] {
		items = append(items, p.item(
			orDefault(it.Title, DefaultTitle),
			orDefault(it.Description, DefaultDescription),
			it.Link,
			orDefault(it.Published, p.timestamp()),
			category,
		))
	}

	return items, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
