package extract

import (
	"regexp"

	"github.com/dreamerjackson/salesintel/record"
)

var (
	itemRe  = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
	titleRe = regexp.MustCompile(`(?s)<title><!\[CDATA\[(.*?)\]\]></title>`)
	descRe  = regexp.MustCompile(`(?s)<description><!\[CDATA\[(.*?)\]\]></description>`)
	linkRe  = regexp.MustCompile(`(?s)<link>(.*?)</link>`)
	dateRe  = regexp.MustCompile(`(?s)<pubDate>(.*?)</pubDate>`)
)

// RegexFeedParser scans raw RSS with fixed patterns. It only understands
// bare <item> tags and CDATA-wrapped titles and descriptions; anything else
// falls back to the defaults.
type RegexFeedParser struct {
	feedOptions
}

func NewRegexFeedParser(opts ...FeedOption) *RegexFeedParser {
	return &RegexFeedParser{feedOptions: newFeedOptions(opts)}
}

func (p *RegexFeedParser) Parse(body []byte, category string) ([]record.Record, error) {
	matches := itemRe.FindAllSubmatch(body, MaxFeedItems)
	items := make([]record.Record, 0, len(matches))

	for _, m := range matches {
		block := m[1]
		items = append(items, p.item(
			extraString(block, titleRe, DefaultTitle),
			extraString(block, descRe, DefaultDescription),
			extraString(block, linkRe, ""),
			extraString(block, dateRe, p.timestamp()),
			category,
		))
	}

	return items, nil
}

func extraString(contents []byte, re *regexp.Regexp, fallback string) string {
	match := re.FindSubmatch(contents)

	if len(match) >= 2 {
		return string(match[1])
	}

	return fallback
}
