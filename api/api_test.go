package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dreamerjackson/salesintel/collect"
	"github.com/dreamerjackson/salesintel/extract"
	"github.com/dreamerjackson/salesintel/fetcher"
	"github.com/dreamerjackson/salesintel/store"
	"github.com/dreamerjackson/salesintel/tasklib"
	"github.com/dreamerjackson/salesintel/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeFetcher struct {
	mu    sync.Mutex
	body  []byte
	err   error
	calls []string
}

func (f *fakeFetcher) Get(ctx context.Context, req *fetcher.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req.URL)
	return f.body, f.err
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func feedBody(n int) []byte {
	var b strings.Builder
	b.WriteString(`<rss><channel>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<item><title><![CDATA[t%d]]></title><description><![CDATA[d%d]]></description><link>https://example.com/%d</link><pubDate>p%d</pubDate></item>`, i, i, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return []byte(b.String())
}

func newApp(t *testing.T, f fetcher.Fetcher) *App {
	t.Helper()

	c, err := collect.New(
		collect.WithFetcher(f),
		collect.WithClock(func() time.Time { return now }),
		collect.WithFeedParser(extract.NewRegexFeedParser(extract.WithScore(func() int { return 1 }))),
	)
	require.NoError(t, err)

	r := template.NewRegistry()
	tasklib.Seed(r)

	a, err := New(
		WithRegistry(r),
		WithCollector(c),
		WithStore(store.New()),
		WithClock(func() time.Time { return now }),
		WithVersion("test"),
		WithLogger(zap.NewNop()),
	)
	require.NoError(t, err)
	return a
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestCollectUnknownTemplate(t *testing.T) {
	f := &fakeFetcher{body: feedBody(1)}
	h := newApp(t, f).Handler()

	rec := do(t, h, http.MethodPost, "/api/collect/template", `{"template_name":"does_not_exist"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Template not found"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Zero(t, f.count())
}

func TestCollectInvalidBody(t *testing.T) {
	f := &fakeFetcher{}
	h := newApp(t, f).Handler()

	for _, body := range []string{"", "{", `{"template_name": 3}`} {
		rec := do(t, h, http.MethodPost, "/api/collect/template", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
	}
	assert.Zero(t, f.count())
}

func TestCollectFailed(t *testing.T) {
	f := &fakeFetcher{err: errors.New("dial tcp: i/o timeout")}
	a := newApp(t, f)

	rec := do(t, a.Handler(), http.MethodPost, "/api/collect/template", `{"template_name":"google_news_rss","params":{"q":"acme"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to collect data"}`, rec.Body.String())
	assert.Equal(t, 1, f.count())
	assert.Equal(t, store.Counts{}, a.Store().Counts())
}

func TestCollectFeedAndHealth(t *testing.T) {
	f := &fakeFetcher{body: feedBody(15)}
	a := newApp(t, f)
	h := a.Handler()

	rec := do(t, h, http.MethodPost, "/api/collect/template", `{"template_name":"google_news_rss","params":{"q":"acme","num":10}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(10), body["count"])
	assert.Equal(t, "google_news_rss", body["template"])
	assert.NotEmpty(t, body["run_id"])
	data := body["data"].([]interface{})
	require.Len(t, data, 10)
	assert.Equal(t, "t0", data[0].(map[string]interface{})["title"])

	// company results are returned but not listed
	f.body = []byte(`<html><h1 class="profile-name">Acme</h1></html>`)
	rec = do(t, h, http.MethodPost, "/api/collect/template", `{"template_name":"crunchbase_company","params":{"company_slug":"acme"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])
	assert.Equal(t, "https://www.crunchbase.com/organization/acme", f.calls[1])

	rec = do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"status": "ok",
		"timestamp": "2024-03-01T12:00:00Z",
		"version": "test",
		"counts": {"intelligence": 10, "companies": 0, "deals": 0}
	}`, rec.Body.String())
}

func TestIntelligenceFeedLazySeed(t *testing.T) {
	f := &fakeFetcher{body: feedBody(15)}
	h := newApp(t, f).Handler()

	rec := do(t, h, http.MethodGet, "/api/intelligence/feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(10), body["total"])
	assert.Equal(t, "2024-03-01T12:00:00Z", body["timestamp"])
	data := body["data"].([]interface{})
	require.Len(t, data, 10)
	assert.Equal(t, "t9", data[0].(map[string]interface{})["title"])
	assert.Equal(t, []string{"https://news.google.com/rss/search"}, f.calls)

	rec = do(t, h, http.MethodGet, "/api/intelligence/feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.count())
}

func TestIntelligenceFeedSeedFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("no such host")}
	h := newApp(t, f).Handler()

	rec := do(t, h, http.MethodGet, "/api/intelligence/feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Empty(t, body["data"])
	assert.Equal(t, float64(0), body["total"])

	do(t, h, http.MethodGet, "/api/intelligence/feed", "")
	assert.Equal(t, 2, f.count())
}

func TestIntelligenceFeedCapsAtTwenty(t *testing.T) {
	f := &fakeFetcher{body: feedBody(15)}
	a := newApp(t, f)
	h := a.Handler()

	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodPost, "/api/collect/template", `{"template_name":"techcrunch_feed"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/api/intelligence/feed", "")
	body := decodeBody(t, rec)
	assert.Len(t, body["data"], LatestFeedItems)
	assert.Equal(t, float64(30), body["total"])
	assert.Equal(t, 3, f.count())
}

func TestTemplatesOverwrite(t *testing.T) {
	f := &fakeFetcher{body: []byte(`{"ok":true}`)}
	h := newApp(t, f).Handler()

	rec := do(t, h, http.MethodPost, "/api/templates", `{
		"name": "google_news_rss",
		"template": {"type": "api", "url": "https://api.example.com/v1/news", "category": "company"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	rec = do(t, h, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody(t, rec)
	assert.Len(t, all, len(tasklib.Templates()))
	assert.Equal(t, map[string]interface{}{
		"name":     "google_news_rss",
		"type":     "api",
		"url":      "https://api.example.com/v1/news",
		"category": "company",
	}, all["google_news_rss"])

	rec = do(t, h, http.MethodPost, "/api/collect/template", `{"template_name":"google_news_rss"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"raw":"{\"ok\":true}"}]`, string(mustMarshal(t, decodeBody(t, rec)["data"])))
	assert.Equal(t, []string{"https://api.example.com/v1/news"}, f.calls)
}

func TestPutTemplateInvalid(t *testing.T) {
	h := newApp(t, &fakeFetcher{}).Handler()

	tests := []struct {
		body string
		want string
	}{
		{`{"name":"x","template":{"type":"script"}}`, msgInvalidBody},
		{`{"name":"x"}`, msgInvalidBody},
		{`not json`, msgInvalidBody},
		{`{"template":{"type":"api","url":"https://example.com"}}`, msgNameRequired},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, "/api/templates", tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.body)
		assert.Equal(t, tt.want, decodeBody(t, rec)["error"], tt.body)
	}
}

func TestDealsPipeline(t *testing.T) {
	a := newApp(t, &fakeFetcher{})
	h := a.Handler()

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/api/deals/pipeline", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["data"], 3)
		assert.Equal(t, float64(3), body["total"])
	}
	assert.Equal(t, 3, a.Store().Counts().Deals)
}

func TestCompanyIntelligence(t *testing.T) {
	h := newApp(t, &fakeFetcher{}).Handler()

	rec := do(t, h, http.MethodGet, "/api/companies/acme-42/intelligence", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme-42", decodeBody(t, rec)["company_id"])
}

func TestOverview(t *testing.T) {
	a := newApp(t, &fakeFetcher{})
	a.Store().AppendIntelligence(nil, nil)

	rec := do(t, a.Handler(), http.MethodGet, "/api/dashboard/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["intelligence_items"])
}

func TestRoutingError(t *testing.T) {
	h := newApp(t, &fakeFetcher{}).Handler()

	rec := do(t, h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestRecovery(t *testing.T) {
	h := recovery(zap.NewNop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestLogRequestsRecordsStatus(t *testing.T) {
	var got *statusRecorder
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = w.(*statusRecorder)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	})

	do(t, logRequests(zap.NewNop(), h), http.MethodGet, "/", "")
	require.NotNil(t, got)
	assert.Equal(t, http.StatusTeapot, got.status)
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestWriteJSONMarshalFailureUsesAppLogger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	a, err := New(WithLogger(zap.New(core)))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.writeJSON(rec, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	require.Equal(t, 1, logs.FilterMessage("marshal response").Len())
}
