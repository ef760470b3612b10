package fetcher

import (
	"time"

	"github.com/dreamerjackson/salesintel/proxy"
	"go.uber.org/zap"
)

// UserAgent identifies as a desktop browser; several sources refuse
// requests without one.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type options struct {
	timeout   time.Duration
	proxy     proxy.Func
	userAgent string
	maxBytes  int64
	logger    *zap.Logger
}

var defaultOptions = options{
	timeout:   5 * time.Second,
	userAgent: UserAgent,
	maxBytes:  5 << 20,
	logger:    zap.NewNop(),
}

type Option func(opts *options)

// WithTimeout sets the http client timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.timeout = timeout
	}
}

func WithProxy(p proxy.Func) Option {
	return func(opts *options) {
		opts.proxy = p
	}
}

func WithUserAgent(ua string) Option {
	return func(opts *options) {
		opts.userAgent = ua
	}
}

func WithMaxBytes(n int64) Option {
	return func(opts *options) {
		if n > 0 {
			opts.maxBytes = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
