package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/senglish/pkg/domain"
)

// Registry maps command names and aliases to handlers.
// Keys are stored lower-cased, so lookups are case-insensitive.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]domain.Handler
	usage    map[string]domain.Usage
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]domain.Handler),
		usage:    make(map[string]domain.Usage),
	}
}

// Register adds a handler under name and every alias.
// If a key already exists, it is overwritten.
// A blank name or a nil handler is rejected and nothing is inserted.
func (r *Registry) Register(name string, aliases []string, h domain.Handler) error {
	name = strings.TrimSpace(name)
	if name == "" || h == nil {
		label := name
		if label == "" {
			label = "unnamed"
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidRegistration, label)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, alias := range append([]string{name}, aliases...) {
		key := strings.ToLower(strings.TrimSpace(alias))
		if key == "" {
			continue
		}
		r.handlers[key] = h
	}

	if d, ok := h.(domain.Describer); ok {
		u := d.Usage()
		if u.Name == "" {
			u.Name = name
		}
		if len(u.Aliases) == 0 {
			u.Aliases = aliases
		}
		r.usage[strings.ToLower(name)] = u
	}
	return nil
}

// Lookup returns the handler registered for name, ignoring case.
// An unknown name is not an error: it returns (nil, false).
func (r *Registry) Lookup(name string) (domain.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[strings.ToLower(strings.TrimSpace(name))]
	return h, ok
}

// Names returns every registered key (names and aliases), sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Describe returns usage for every handler that documents itself, sorted by name.
func (r *Registry) Describe() []domain.Usage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Usage, 0, len(r.usage))
	for _, u := range r.usage {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
