package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/senglish/pkg/ports"
)

// Mask replaces every masked value before it reaches the backend.
const Mask = "***"

type piiMiddleware struct {
	next     ports.StateBag
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values whose key matches one of
// the patterns. Nested objects are walked, so {"user": {"password": ...}} is masked too.
// Masking is one-way: Get returns what was stored.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateBag) ports.StateBag {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Set(ctx context.Context, key string, value any) error {
	if m.matches(key) {
		return m.next.Set(ctx, key, Mask)
	}

	// Copy before masking so the caller's map is left untouched.
	if obj, ok := value.(map[string]any); ok {
		cloned := deepCopyMap(obj)
		maskMap(cloned, m.patterns)
		value = cloned
	}
	return m.next.Set(ctx, key, value)
}

func (m *piiMiddleware) Get(ctx context.Context, key string) (any, error) {
	return m.next.Get(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) Keys(ctx context.Context) ([]string, error) {
	return m.next.Keys(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}

		if subMap, ok := v.(map[string]any); ok && !masked {
			maskMap(subMap, patterns)
		}
	}
}
