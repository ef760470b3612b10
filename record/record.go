// Package record holds the loosely typed unit produced by a collection run.
package record

import "fmt"

const (
	KeyTitle          = "title"
	KeyContent        = "content"
	KeyLink           = "link"
	KeyDate           = "date"
	KeyCategory       = "category"
	KeySource         = "source"
	KeyRelevanceScore = "relevance_score"
	KeyRaw            = "raw"
	KeyURL            = "url"
	KeyScrapedAt      = "scraped_at"
)

// Record maps field names to extracted values. The store never changes a
// record after it has been appended.
type Record map[string]interface{}

// String returns the field as text, or "" when it is absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
