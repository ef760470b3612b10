// Package config loads the server configuration from a toml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dreamerjackson/salesintel/template"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	mconfig "go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	jsonreader "go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

const (
	DefaultPath    = "config.toml"
	DefaultHTTP    = ":8080"
	DefaultLevel   = "INFO"
	DefaultTimeout = 5000
)

type Server struct {
	HTTP string
}

type Fetcher struct {
	// Timeout in milliseconds.
	Timeout  int
	Proxy    []string
	MaxBytes int64
}

type Feed struct {
	Parser string
}

type Config struct {
	LogLevel  string
	LogFile   string
	Server    Server
	Fetcher   Fetcher
	Feed      Feed
	Templates []template.Definition
}

func Default() *Config {
	return &Config{
		LogLevel: DefaultLevel,
		Server:   Server{HTTP: DefaultHTTP},
		Fetcher:  Fetcher{Timeout: DefaultTimeout},
	}
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetcher.Timeout) * time.Millisecond
}

// Load reads path. A missing file yields Default.
func Load(path string) (*Config, error) {
	c := Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}

	enc := toml.NewEncoder()
	cfg, err := mconfig.NewConfig(mconfig.WithReader(jsonreader.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return nil, err
	}
	defer cfg.Close()

	if err := cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	)); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	c.LogLevel = cfg.Get("logLevel").String(DefaultLevel)
	c.LogFile = cfg.Get("logFile").String("")
	c.Server.HTTP = cfg.Get("server", "http").String(DefaultHTTP)
	c.Fetcher.Timeout = cfg.Get("fetcher", "timeout").Int(DefaultTimeout)
	c.Fetcher.Proxy = cfg.Get("fetcher", "proxy").StringSlice(nil)
	c.Fetcher.MaxBytes = int64(cfg.Get("fetcher", "maxBytes").Int(0))
	c.Feed.Parser = cfg.Get("feed", "parser").String("")

	if err := cfg.Get("Templates").Scan(&c.Templates); err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}

	return c, nil
}

// TemplateSet converts the configured templates, failing on the first one
// with an unknown type.
func (c *Config) TemplateSet() ([]*template.Template, error) {
	ts := make([]*template.Template, 0, len(c.Templates))
	for _, s := range c.Templates {
		t, err := s.Template()
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", s.Name, err)
		}
		ts = append(ts, t)
	}
	return ts, nil
}
