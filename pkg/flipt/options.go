package flipt

import (
	"log/slog"
	"maps"

	"github.com/dmitrymomot/flags-flipt/pkg/metrics"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics records evaluations and provider data requests on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *Adapter) { a.metrics = c }
}

// WithClientManager sets the manager that owns engine clients.
// Defaults to DefaultClientManager().
func WithClientManager(m *ClientManager) Option {
	return func(a *Adapter) {
		if m != nil {
			a.manager = m
		}
	}
}

// WithEnviron replaces the process environment as the environment layer.
func WithEnviron(environ map[string]string) Option {
	return func(a *Adapter) {
		a.environ = maps.Clone(environ)
		if a.environ == nil {
			a.environ = map[string]string{}
		}
	}
}

// WithEnvFiles layers the given .env files under the process environment.
// Ignored when WithEnviron is set.
func WithEnvFiles(files ...string) Option {
	return func(a *Adapter) { a.envFiles = append(a.envFiles, files...) }
}

// WithRequiredCredentials makes ProviderData report missing credentials as hints
// instead of contacting the engine.
func WithRequiredCredentials() Option {
	return func(a *Adapter) { a.requireCredentials = true }
}
