package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFullURL(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		want    string
		wantErr bool
	}{
		{
			name: "no query",
			req:  Request{URL: "https://news.google.com/rss/search"},
			want: "https://news.google.com/rss/search",
		},
		{
			name: "merge query",
			req: Request{
				URL:   "https://news.google.com/rss/search?hl=en-US",
				Query: url.Values{"q": {"sales intelligence"}},
			},
			want: "https://news.google.com/rss/search?hl=en-US&q=sales+intelligence",
		},
		{name: "relative", req: Request{URL: "/rss"}, wantErr: true},
		{name: "empty", req: Request{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.FullURL()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBrowserFetch(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	f := New()
	body, err := f.Get(context.Background(), &Request{
		URL:   srv.URL + "/page",
		Query: url.Values{"q": {"acme"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "<html><body>ok</body></html>", string(body))
	assert.Equal(t, UserAgent, gotUA)
	assert.Equal(t, "acme", gotQuery)
}

func TestBrowserFetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	body, err := New().Get(context.Background(), &Request{URL: srv.URL})
	assert.Nil(t, body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestBrowserFetchDecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("caf\xe9"))
	}))
	defer srv.Close()

	body, err := New().Get(context.Background(), &Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "café", string(body))
}

func TestBrowserFetchMaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, strings.Repeat("a", 4096))
	}))
	defer srv.Close()

	body, err := New(WithMaxBytes(100)).Get(context.Background(), &Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Len(t, body, 100)
}

func TestBrowserFetchWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := New(WithTimeout(50*time.Millisecond)).Get(context.Background(), &Request{URL: srv.URL})
	assert.Error(t, err)
}

func TestBrowserFetchWithProxy(t *testing.T) {
	var proxied bool
	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = true
		fmt.Fprint(w, "via proxy")
	}))
	defer proxySrv.Close()

	proxyURL, err := url.Parse(proxySrv.URL)
	require.NoError(t, err)

	f := New(WithProxy(func(*http.Request) (*url.URL, error) {
		return proxyURL, nil
	}))
	body, err := f.Get(context.Background(), &Request{URL: "http://upstream.invalid/page"})
	require.NoError(t, err)
	assert.True(t, proxied)
	assert.Equal(t, "via proxy", string(body))
}

func TestBrowserFetchBody(t *testing.T) {
	pad := strings.Repeat("a", 1100)
	tests := []struct {
		name        string
		contentType string
		body        string
		maxBytes    int64
		want        string
	}{
		{
			name:        "utf-8 after long ascii prefix without charset",
			contentType: "application/json",
			body:        `{"pad":"` + pad + `","name":"Société “Acme”"}`,
			want:        `{"pad":"` + pad + `","name":"Société “Acme”"}`,
		},
		{
			name:        "declared utf-8",
			contentType: "text/xml; charset=utf-8",
			body:        "<title>Grüße</title>",
			want:        "<title>Grüße</title>",
		},
		{
			name:        "latin-1 without charset",
			contentType: "application/octet-stream",
			body:        "caf\xe9",
			want:        "café",
		},
		{
			name:        "meta charset on a latin-1 page",
			contentType: "text/html",
			body:        "<html><head><meta charset=\"iso-8859-1\"></head><body>na\xefve</body></html>",
			want:        `<html><head><meta charset="iso-8859-1"></head><body>naïve</body></html>`,
		},
		{
			name:        "rune cut by max bytes",
			contentType: "application/json",
			body:        pad + "é",
			maxBytes:    int64(len(pad) + 1),
			want:        pad + "\xc3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var opts []Option
			if tt.maxBytes > 0 {
				opts = append(opts, WithMaxBytes(tt.maxBytes))
			}
			body, err := New(opts...).Get(context.Background(), &Request{URL: srv.URL})
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestValidUTF8(t *testing.T) {
	assert.True(t, validUTF8([]byte("Société"), false))
	assert.False(t, validUTF8([]byte("caf\xe9"), false))
	assert.True(t, validUTF8([]byte("caf\xc3"), true))
	assert.False(t, validUTF8([]byte("\xe9a"), true))
	assert.False(t, validUTF8([]byte("caf\xe9x\xc3"), true))
}
