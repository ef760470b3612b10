package tasklib

import (
	"testing"

	"github.com/dreamerjackson/salesintel/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	r := template.NewRegistry()
	Seed(r)

	assert.Equal(t, []string{
		"crunchbase_company",
		"google_news_rss",
		"linkedin_company",
		"techcrunch_feed",
	}, r.Names())

	feed, ok := r.Get(DefaultFeedTemplate)
	require.True(t, ok)
	assert.Equal(t, template.KindAPI, feed.Kind())
}

func TestSeedExtraReplacesBuiltin(t *testing.T) {
	r := template.NewRegistry()
	Seed(r, &template.Template{
		Name:     "techcrunch_feed",
		Category: "news",
		Source:   template.APISource{URL: "https://example.com/rss"},
	})

	got, ok := r.Get("techcrunch_feed")
	require.True(t, ok)
	assert.Equal(t, template.APISource{URL: "https://example.com/rss"}, got.Source)
	assert.Equal(t, 4, r.Len())
}
