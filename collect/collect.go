package collect

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dreamerjackson/salesintel/extract"
	"github.com/dreamerjackson/salesintel/fetcher"
	"github.com/dreamerjackson/salesintel/record"
	"github.com/dreamerjackson/salesintel/template"
	"go.uber.org/zap"
)

// Extractor applies crawler selectors to one page.
type Extractor interface {
	Extract(body []byte, selectors map[string]string) (record.Record, error)
}

// Result is one successful run of a template.
type Result struct {
	RunID    string
	Template string
	Category string
	URL      string
	Records  []record.Record
}

type Collector struct {
	options
}

func New(opts ...Option) (*Collector, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	if options.fetcher == nil {
		options.fetcher = fetcher.New(fetcher.WithLogger(options.logger))
	}
	if options.feedParser == nil {
		options.feedParser = extract.NewRegexFeedParser()
	}
	if options.idGen == nil {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return nil, err
		}
		options.idGen = node
	}

	return &Collector{options: options}, nil
}

// Run executes t and returns nil on any failure. The failure is logged, not
// returned, so callers cannot tell a timeout from a bad status or a parse
// error.
func (c *Collector) Run(ctx context.Context, t *template.Template, params Params) (res *Result) {
	start := time.Now()
	name := ""
	if t != nil {
		name = t.Name
	}

	defer func() {
		if err := recover(); err != nil {
			c.logger.Error("collect panic",
				zap.String("template", name),
				zap.Any("err", err),
				zap.String("stack", string(debug.Stack())))
			res = nil
		}
	}()

	res, err := c.Collect(ctx, t, params)
	if err != nil {
		c.logger.Error("collect failed",
			zap.String("template", name),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("collect done",
		zap.String("template", name),
		zap.String("run_id", res.RunID),
		zap.String("url", res.URL),
		zap.Int("count", len(res.Records)),
		zap.Duration("took", time.Since(start)),
	)

	return res
}

// Collect is Run with the error kept.
func (c *Collector) Collect(ctx context.Context, t *template.Template, params Params) (*Result, error) {
	if t == nil {
		return nil, errors.New("nil template")
	}

	var (
		res *Result
		err error
	)
	switch src := t.Source.(type) {
	case template.APISource:
		res, err = c.collectAPI(ctx, t, src, params)
	case template.CrawlerSource:
		res, err = c.collectCrawler(ctx, t, src, params)
	default:
		return nil, fmt.Errorf("template %s: unsupported kind %v", t.Name, t.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", t.Name, err)
	}

	res.RunID = c.idGen.Generate().String()
	res.Template = t.Name
	res.Category = t.Category

	return res, nil
}

func (c *Collector) collectAPI(ctx context.Context, t *template.Template, src template.APISource, params Params) (*Result, error) {
	req := &fetcher.Request{URL: src.URL, Query: params.Query()}
	body, err := c.fetcher.Get(ctx, req)
	if err != nil {
		return nil, err
	}

	var records []record.Record
	if extract.IsFeedURL(src.URL) {
		records, err = c.feedParser.Parse(body, t.Category)
		if err != nil {
			return nil, err
		}
	} else {
		records = []record.Record{{record.KeyRaw: string(body)}}
	}

	return &Result{URL: src.URL, Records: records}, nil
}

func (c *Collector) collectCrawler(ctx context.Context, t *template.Template, src template.CrawlerSource, params Params) (*Result, error) {
	target := ResolveURL(src.URLPattern, params)

	body, err := c.fetcher.Get(ctx, &fetcher.Request{URL: target})
	if err != nil {
		return nil, err
	}

	fields, err := c.extractor.Extract(body, src.Selectors)
	if err != nil {
		return nil, err
	}

	data := record.Record{
		record.KeyURL:       target,
		record.KeyCategory:  t.Category,
		record.KeyScrapedAt: c.now().UTC().Format(time.RFC3339),
	}
	// selector fields win on collision
	for k, v := range fields {
		data[k] = v
	}

	return &Result{URL: target, Records: []record.Record{data}}, nil
}
