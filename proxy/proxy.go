package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

// Func matches http.Transport.Proxy.
type Func func(*http.Request) (*url.URL, error)

var ErrEmptyProxyList = errors.New("proxy url list is empty")

type roundRobinSwitcher struct {
	proxyURLs []*url.URL
	index     uint32
}

func (r *roundRobinSwitcher) GetProxy(pr *http.Request) (*url.URL, error) {
	if len(r.proxyURLs) == 0 {
		return nil, ErrEmptyProxyList
	}
	index := atomic.AddUint32(&r.index, 1) - 1
	u := r.proxyURLs[index%uint32(len(r.proxyURLs))]

	return u, nil
}

// RoundRobinProxySwitcher returns a Func that hands out proxyURLs in turn on
// every request. "http", "https" and "socks5" schemes are supported; an
// address without a scheme, such as "127.0.0.1:7890", is treated as "http".
func RoundRobinProxySwitcher(proxyURLs ...string) (Func, error) {
	if len(proxyURLs) < 1 {
		return nil, ErrEmptyProxyList
	}

	urls := make([]*url.URL, len(proxyURLs))
	for i, u := range proxyURLs {
		raw := u
		if !strings.Contains(raw, "://") {
			raw = "http://" + raw
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url %q: %w", u, err)
		}
		if parsed.Host == "" {
			return nil, fmt.Errorf("proxy url %q has no host", u)
		}
		switch parsed.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", parsed.Scheme)
		}
		urls[i] = parsed
	}

	return (&roundRobinSwitcher{proxyURLs: urls}).GetProxy, nil
}
