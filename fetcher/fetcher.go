package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Request is a single GET. Query is merged into the query string already
// present in URL.
type Request struct {
	URL   string
	Query url.Values
}

func (r *Request) FullURL() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", r.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", r.URL)
	}
	if len(r.Query) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for k, vs := range r.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

type Fetcher interface {
	Get(ctx context.Context, req *Request) ([]byte, error)
}

type browserFetch struct {
	client *http.Client
	options
}

// New returns a Fetcher that looks like a desktop browser and decodes the
// body to UTF-8.
func New(opts ...Option) Fetcher {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	client := &http.Client{
		Timeout: options.timeout,
	}

	if options.proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = options.proxy
		client.Transport = transport
	}

	return &browserFetch{client: client, options: options}
}

func (b *browserFetch) Get(ctx context.Context, request *Request) ([]byte, error) {
	u, err := request.FullURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}

	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("error status code:%d url:%s", resp.StatusCode, u)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, b.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	truncated := int64(len(raw)) >= b.maxBytes
	body, err := b.decode(raw, resp.Header.Get("Content-Type"), truncated)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	b.logger.Debug("fetched", zap.String("url", u), zap.Int("length", len(body)))

	return body, nil
}

// decode converts body to UTF-8. Bytes pass through untouched when they are
// declared UTF-8, or when nothing declares a charset and they already are
// valid UTF-8. A BOM or a charset in contentType is trusted; otherwise a meta
// tag, and last windows-1252, is used for bodies that are not UTF-8.
func (b *browserFetch) decode(body []byte, contentType string, truncated bool) ([]byte, error) {
	if len(body) == 0 {
		return body, nil
	}

	e, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && validUTF8(body, truncated)) {
		return body, nil
	}

	b.logger.Debug("transcode body", zap.String("charset", name), zap.Bool("certain", certain))
	out, _, err := transform.Bytes(e.NewDecoder(), body)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// validUTF8 also accepts a truncated body that was cut inside its last rune.
func validUTF8(b []byte, truncated bool) bool {
	if utf8.Valid(b) {
		return true
	}
	if !truncated {
		return false
	}
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		tail := b[len(b)-i:]
		if utf8.RuneStart(tail[0]) {
			return !utf8.FullRune(tail) && utf8.Valid(b[:len(b)-i])
		}
	}
	return false
}
