package flags

import (
	"context"
	"sync"
)

// Identify resolves the entity a flag is evaluated for, usually from request context.
type Identify[E any] func(ctx context.Context) (E, error)

type scopeKey struct{}

type requestScope struct {
	mu      sync.Mutex
	entries map[any]*scopeEntry
}

type scopeEntry struct {
	once  sync.Once
	value any
	err   error
}

// WithRequestScope returns a context carrying a fresh memoization scope for Dedupe.
// Create one per incoming request.
func WithRequestScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, &requestScope{entries: make(map[any]*scopeEntry)})
}

// Dedupe wraps fn so it runs at most once per request scope.
// Concurrent callers in the same scope wait for the first call and share its result,
// including its error. Outside a scope fn is called directly.
func Dedupe[E any](fn Identify[E]) Identify[E] {
	key := new(byte)
	return func(ctx context.Context) (E, error) {
		scope, ok := ctx.Value(scopeKey{}).(*requestScope)
		if !ok {
			return fn(ctx)
		}

		scope.mu.Lock()
		entry, exists := scope.entries[key]
		if !exists {
			entry = &scopeEntry{}
			scope.entries[key] = entry
		}
		scope.mu.Unlock()

		entry.once.Do(func() {
			entry.value, entry.err = fn(ctx)
		})

		v, _ := entry.value.(E)
		return v, entry.err
	}
}
