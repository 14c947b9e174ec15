package flags

import (
	"context"
	"errors"
)

// Flag is a declared feature flag: a key bound to an adapter and an identify function.
type Flag[V, E any] struct {
	key         string
	adapter     Adapter[V, E]
	identify    Identify[E]
	defaultVal  V
	hasDefault  bool
	description string
	options     []Option
}

// FlagOption configures a Flag.
type FlagOption[V, E any] func(*Flag[V, E])

// WithIdentify sets the function resolving the evaluated entity.
func WithIdentify[V, E any](fn Identify[E]) FlagOption[V, E] {
	return func(f *Flag[V, E]) { f.identify = fn }
}

// WithDefault sets the value returned when identify or the adapter fails.
func WithDefault[V, E any](v V) FlagOption[V, E] {
	return func(f *Flag[V, E]) {
		f.defaultVal = v
		f.hasDefault = true
	}
}

// WithDescription sets the description published through Definitions.
func WithDescription[V, E any](desc string) FlagOption[V, E] {
	return func(f *Flag[V, E]) { f.description = desc }
}

// WithOptions sets the selectable values published through Definitions.
func WithOptions[V, E any](opts ...Option) FlagOption[V, E] {
	return func(f *Flag[V, E]) { f.options = append(f.options, opts...) }
}

// New declares a flag.
func New[V, E any](key string, adapter Adapter[V, E], opts ...FlagOption[V, E]) *Flag[V, E] {
	f := &Flag[V, E]{key: key, adapter: adapter}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Key returns the flag key.
func (f *Flag[V, E]) Key() string { return f.key }

// Value evaluates the flag for the entity identified from ctx.
// On failure the configured default is returned together with a nil error;
// without a default the error is returned.
func (f *Flag[V, E]) Value(ctx context.Context) (V, error) {
	v, err := f.decide(ctx)
	if err != nil && f.hasDefault {
		return f.defaultVal, nil
	}
	return v, err
}

// Decide evaluates the flag and always reports failures, ignoring the default.
func (f *Flag[V, E]) Decide(ctx context.Context) (V, error) {
	return f.decide(ctx)
}

func (f *Flag[V, E]) decide(ctx context.Context) (V, error) {
	var zero V
	if f.adapter == nil {
		return zero, ErrNoAdapter
	}

	var entities E
	if f.identify != nil {
		e, err := f.identify(ctx)
		if err != nil {
			return zero, errors.Join(ErrIdentify, err)
		}
		entities = e
	}

	return f.adapter.Decide(ctx, Request[E]{Key: f.key, Entities: entities})
}

// Definition returns the discovery definition declared on the flag itself.
func (f *Flag[V, E]) Definition() FlagDefinition {
	return FlagDefinition{
		Description: f.description,
		Options:     f.options,
	}
}

// Definer is implemented by declared flags.
type Definer interface {
	Key() string
	Definition() FlagDefinition
}

// Definitions builds provider data from declared flags.
func Definitions(flags ...Definer) ProviderData {
	data := ProviderData{Definitions: make(map[string]FlagDefinition, len(flags)), Hints: []Hint{}}
	for _, f := range flags {
		data.Definitions[f.Key()] = f.Definition()
	}
	return data
}
