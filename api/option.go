package api

import (
	"time"

	"github.com/dreamerjackson/salesintel/collect"
	"github.com/dreamerjackson/salesintel/store"
	"github.com/dreamerjackson/salesintel/tasklib"
	"github.com/dreamerjackson/salesintel/tasklib/news"
	"github.com/dreamerjackson/salesintel/template"
	"github.com/dreamerjackson/salesintel/version"
	"go.uber.org/zap"
)

type options struct {
	registry     *template.Registry
	collector    *collect.Collector
	store        *store.Store
	logger       *zap.Logger
	now          func() time.Time
	feedTemplate string
	feedParams   collect.Params
	version      string
}

var defaultOptions = options{
	logger:       zap.NewNop(),
	now:          time.Now,
	feedTemplate: tasklib.DefaultFeedTemplate,
	feedParams:   news.DefaultParams(),
	version:      version.GetVersion(),
}

type Option func(opts *options)

func WithRegistry(r *template.Registry) Option {
	return func(opts *options) {
		opts.registry = r
	}
}

func WithCollector(c *collect.Collector) Option {
	return func(opts *options) {
		opts.collector = c
	}
}

func WithStore(s *store.Store) Option {
	return func(opts *options) {
		opts.store = s
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		opts.now = now
	}
}

// WithFeedTemplate names the template used to seed an empty intelligence
// feed and the params it is run with.
func WithFeedTemplate(name string, params collect.Params) Option {
	return func(opts *options) {
		opts.feedTemplate = name
		opts.feedParams = params
	}
}

func WithVersion(v string) Option {
	return func(opts *options) {
		opts.version = v
	}
}
