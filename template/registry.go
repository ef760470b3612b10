package template

import (
	"sort"
	"sync"
)

// Registry maps template names to their definitions. A name collision
// replaces the previous definition.
type Registry struct {
	mu   sync.RWMutex
	hash map[string]*Template
}

func NewRegistry() *Registry {
	return &Registry{
		hash: make(map[string]*Template, 8),
	}
}

// Put stores a copy of t under name. The shape of t is not validated.
func (r *Registry) Put(name string, t *Template) {
	if t == nil {
		return
	}
	cp := *t
	cp.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hash[name] = &cp
}

func (r *Registry) Get(name string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.hash[name]
	if !ok {
		return nil, false
	}
	cp := *t

	return &cp, true
}

// All returns a snapshot of every registered template.
func (r *Registry) All() map[string]*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make(map[string]*Template, len(r.hash))
	for name, t := range r.hash {
		cp := *t
		all[name] = &cp
	}

	return all
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.hash))
	for name := range r.hash {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)

	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hash)
}
