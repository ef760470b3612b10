package collect

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dreamerjackson/salesintel/extract"
	"github.com/dreamerjackson/salesintel/fetcher"
	"go.uber.org/zap"
)

type options struct {
	fetcher    fetcher.Fetcher
	feedParser extract.FeedParser
	extractor  Extractor
	idGen      *snowflake.Node
	now        func() time.Time
	logger     *zap.Logger
}

var defaultOptions = options{
	extractor: extract.SelectorExtractor{},
	now:       time.Now,
	logger:    zap.NewNop(),
}

type Option func(opts *options)

func WithFetcher(f fetcher.Fetcher) Option {
	return func(opts *options) {
		opts.fetcher = f
	}
}

func WithFeedParser(p extract.FeedParser) Option {
	return func(opts *options) {
		opts.feedParser = p
	}
}

func WithExtractor(e Extractor) Option {
	return func(opts *options) {
		opts.extractor = e
	}
}

func WithIDGenerator(node *snowflake.Node) Option {
	return func(opts *options) {
		opts.idGen = node
	}
}

func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		opts.now = now
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
