// Package store keeps collected records in memory for the life of the
// process.
package store

import (
	"strings"
	"sync"

	"github.com/dreamerjackson/salesintel/record"
	"go.uber.org/zap"
)

// Counts is the length of each list.
type Counts struct {
	Intelligence int `json:"intelligence"`
	Companies    int `json:"companies"`
	Deals        int `json:"deals"`
}

// Store holds three append-only lists. Nothing is deduplicated and nothing
// survives a restart.
type Store struct {
	mu           sync.RWMutex
	intelligence []record.Record
	companies    []record.Record
	deals        []record.Record
	options
}

func New(opts ...Option) *Store {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &Store{options: options}
}

// RoutesToIntelligence reports whether results of category are listed.
// Matching is a case-sensitive substring test.
func RoutesToIntelligence(category string) bool {
	return strings.Contains(category, "news") || strings.Contains(category, "intelligence")
}

// Route appends records to the intelligence list when category routes there
// and reports whether it did. Records of any other category are dropped.
func (s *Store) Route(category string, records []record.Record) bool {
	if !RoutesToIntelligence(category) {
		s.logger.Debug("records not listed",
			zap.String("category", category),
			zap.Int("count", len(records)),
		)
		return false
	}

	s.AppendIntelligence(records...)

	return true
}

func (s *Store) AppendIntelligence(records ...record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intelligence = append(s.intelligence, records...)
}

// ReplaceDeals drops every deal and stores deals in their place.
func (s *Store) ReplaceDeals(deals []record.Record) {
	cp := make([]record.Record, len(deals))
	copy(cp, deals)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = cp
}

// Intelligence returns the list in insertion order.
func (s *Store) Intelligence() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.intelligence)
}

// Latest returns up to n intelligence records, newest first.
func (s *Store) Latest(n int) []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.intelligence) {
		n = len(s.intelligence)
	}
	if n < 0 {
		n = 0
	}

	latest := make([]record.Record, 0, n)
	for i := len(s.intelligence) - 1; i >= len(s.intelligence)-n; i-- {
		latest = append(latest, s.intelligence[i])
	}

	return latest
}

func (s *Store) Companies() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.companies)
}

func (s *Store) Deals() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.deals)
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Counts{
		Intelligence: len(s.intelligence),
		Companies:    len(s.companies),
		Deals:        len(s.deals),
	}
}

func clone(records []record.Record) []record.Record {
	cp := make([]record.Record, len(records))
	copy(cp, records)
	return cp
}
