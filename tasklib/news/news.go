package news

import "github.com/dreamerjackson/salesintel/template"

// GoogleNewsTask searches Google News; the caller's params become the query
// string (q, hl, gl, ceid).
var GoogleNewsTask = &template.Template{
	Name:     "google_news_rss",
	Category: "news",
	Source: template.APISource{
		URL: "https://news.google.com/rss/search",
	},
}

var TechCrunchTask = &template.Template{
	Name:     "techcrunch_feed",
	Category: "intelligence",
	Source: template.APISource{
		URL: "https://techcrunch.com/feed/",
	},
}

// DefaultParams is used when the intelligence feed seeds itself.
func DefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"q":    "sales intelligence",
		"hl":   "en-US",
		"gl":   "US",
		"ceid": "US:en",
	}
}
