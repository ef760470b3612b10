// Package extract turns fetched bodies into records.
package extract

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dreamerjackson/salesintel/record"
)

const (
	// MaxFeedItems caps the records taken from one feed. Later items are
	// ignored, not reported.
	MaxFeedItems = 10
	// MaxDescriptionLen is counted in runes, before the ellipsis.
	MaxDescriptionLen = 200
	Ellipsis          = "..."

	DefaultTitle       = "No title"
	DefaultDescription = "No description"
	SourceLabel        = "RSS Feed"

	// MaxRelevanceScore bounds the filler score to [0, MaxRelevanceScore).
	// It is noise and does not rank anything.
	MaxRelevanceScore = 100
)

// FeedParser turns feed markup into at most MaxFeedItems records stamped
// with category.
type FeedParser interface {
	Parse(body []byte, category string) ([]record.Record, error)
}

// NewFeedParser picks a parser by name: "regex" (or "") and "gofeed".
func NewFeedParser(name string, opts ...FeedOption) (FeedParser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "regex":
		return NewRegexFeedParser(opts...), nil
	case "gofeed":
		return NewGofeedParser(opts...), nil
	}
	return nil, fmt.Errorf("unknown feed parser %q", name)
}

// IsFeedURL reports whether an api source should be parsed as a feed.
func IsFeedURL(u string) bool {
	return strings.Contains(u, "feed") || strings.Contains(u, "rss")
}

type feedOptions struct {
	score func() int
	now   func() time.Time
}

type FeedOption func(opts *feedOptions)

// WithScore replaces the random relevance score, mostly for tests.
func WithScore(score func() int) FeedOption {
	return func(opts *feedOptions) {
		opts.score = score
	}
}

// WithClock sets the time used for items without a publish date.
func WithClock(now func() time.Time) FeedOption {
	return func(opts *feedOptions) {
		opts.now = now
	}
}

func newFeedOptions(opts []FeedOption) feedOptions {
	options := feedOptions{
		score: randomScore(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func randomScore() func() int {
	var mu sync.Mutex
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	return func() int {
		mu.Lock()
		defer mu.Unlock()
		return r.Intn(MaxRelevanceScore)
	}
}

// item builds a feed record. Empty strings have already been replaced by the
// defaults where the parser wants them.
func (o *feedOptions) item(title, content, link, date, category string) record.Record {
	return record.Record{
		record.KeyTitle:          title,
		record.KeyContent:        truncate(content, MaxDescriptionLen),
		record.KeyLink:           link,
		record.KeyDate:           date,
		record.KeyCategory:       category,
		record.KeySource:         SourceLabel,
		record.KeyRelevanceScore: o.score(),
	}
}

func (o *feedOptions) timestamp() string {
	return o.now().UTC().Format(time.RFC3339)
}

// truncate cuts s to n runes and appends Ellipsis when it was longer.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + Ellipsis
}
