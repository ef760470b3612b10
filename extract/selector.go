package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dreamerjackson/salesintel/record"
)

// SelectorExtractor pulls one value per field out of a single page.
type SelectorExtractor struct{}

// Extract sets every field to the trimmed text of the first element its
// selector matches. A selector that matches nothing, or does not compile,
// gives "" and does not stop the other fields.
func (SelectorExtractor) Extract(body []byte, selectors map[string]string) (record.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader failed: %w", err)
	}

	out := make(record.Record, len(selectors))
	for field, sel := range selectors {
		out[field] = strings.TrimSpace(doc.Find(sel).First().Text())
	}

	return out, nil
}
