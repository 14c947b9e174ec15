package flags

import "context"

// Request carries the inputs of a single flag decision.
type Request[E any] struct {
	// Key is the flag identifier.
	Key string
	// Entities is the evaluated subject as returned by the flag's identify function.
	// It is the zero value of E when the flag has no identify function.
	Entities E
}

// Adapter is the capability every flag backend implements.
// V is the value type produced for the caller, E the entity type it accepts.
type Adapter[V, E any] interface {
	Decide(ctx context.Context, req Request[E]) (V, error)
}

// AdapterFunc lets an ordinary function act as an Adapter.
type AdapterFunc[V, E any] func(ctx context.Context, req Request[E]) (V, error)

// Decide calls f(ctx, req).
func (f AdapterFunc[V, E]) Decide(ctx context.Context, req Request[E]) (V, error) {
	return f(ctx, req)
}
