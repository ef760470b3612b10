// Package template describes collection sources and keeps the process-wide
// registry of them.
package template

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind selects the collection strategy for a template.
type Kind int

const (
	KindAPI Kind = iota + 1
	KindCrawler
)

func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindCrawler:
		return "crawler"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "api":
		return KindAPI, nil
	case "crawler":
		return KindCrawler, nil
	}
	return 0, fmt.Errorf("unknown template type %q", s)
}

// Source is the kind-specific part of a template. Only APISource and
// CrawlerSource implement it.
type Source interface {
	Kind() Kind
	source()
}

// APISource is fetched with the caller's params as query values. Feed-like
// URLs are parsed as RSS, anything else is returned as an opaque body.
type APISource struct {
	URL string
}

func (APISource) Kind() Kind { return KindAPI }
func (APISource) source()    {}

// CrawlerSource is a single page whose URL may contain {name} placeholders.
// Selectors maps output field to CSS selector.
type CrawlerSource struct {
	URLPattern string
	Selectors  map[string]string
}

func (CrawlerSource) Kind() Kind { return KindCrawler }
func (CrawlerSource) source()    {}

type Template struct {
	Name     string
	Category string
	Source   Source
}

func (t *Template) Kind() Kind {
	if t.Source == nil {
		return 0
	}
	return t.Source.Kind()
}

// Definition is the flat form of a template used on the wire and in the config
// file.
type Definition struct {
	Name       string            `json:"name,omitempty"`
	Type       string            `json:"type"`
	URL        string            `json:"url,omitempty"`
	URLPattern string            `json:"url_pattern,omitempty"`
	Category   string            `json:"category,omitempty"`
	Selectors  map[string]string `json:"selectors,omitempty"`
}

// Template converts the definition. Only the type is checked; a crawler definition
// without url_pattern falls back to url.
func (s Definition) Template() (*Template, error) {
	k, err := ParseKind(s.Type)
	if err != nil {
		return nil, err
	}

	t := &Template{Name: s.Name, Category: s.Category}
	switch k {
	case KindAPI:
		t.Source = APISource{URL: s.URL}
	case KindCrawler:
		pattern := s.URLPattern
		if pattern == "" {
			pattern = s.URL
		}
		t.Source = CrawlerSource{URLPattern: pattern, Selectors: s.Selectors}
	}

	return t, nil
}

func (t *Template) Definition() Definition {
	s := Definition{
		Name:     t.Name,
		Type:     t.Kind().String(),
		Category: t.Category,
	}
	switch src := t.Source.(type) {
	case APISource:
		s.URL = src.URL
	case CrawlerSource:
		s.URLPattern = src.URLPattern
		s.Selectors = src.Selectors
	}
	return s
}

func (t *Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Definition())
}

func (t *Template) UnmarshalJSON(b []byte) error {
	var s Definition
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := s.Template()
	if err != nil {
		return err
	}
	*t = *v
	return nil
}
