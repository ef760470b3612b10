package collect

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
)

// ParamURL, when present, is used as the crawler target verbatim.
const ParamURL = "url"

// Params is the caller's parameter bag. Values come straight from JSON.
type Params map[string]interface{}

func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

// Query renders every param as a query value. Arrays become repeated keys.
func (p Params) Query() url.Values {
	q := make(url.Values, len(p))
	for k, v := range p {
		switch v := v.(type) {
		case nil:
		case []interface{}:
			for _, e := range v {
				if e != nil {
					q.Add(k, stringify(e))
				}
			}
		case []string:
			for _, e := range v {
				q.Add(k, e)
			}
		default:
			q.Set(k, stringify(v))
		}
	}
	return q
}

func stringify(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return fmt.Sprint(v)
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// ResolveURL returns params["url"] when set, otherwise pattern with each
// {name} replaced by params[name]. Unknown placeholders are left in place.
func ResolveURL(pattern string, params Params) string {
	if u, ok := params.String(ParamURL); ok && u != "" {
		return u
	}

	return placeholderRe.ReplaceAllStringFunc(pattern, func(token string) string {
		name := token[1 : len(token)-1]
		if v, ok := params.String(name); ok {
			return v
		}
		return token
	})
}
