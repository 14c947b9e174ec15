package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Option adjusts the settings New builds a logger from.
type Option func(*settings)

// WithLevel sets the minimum level written.
func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithFormat selects the output encoding. Unknown formats panic so a bad
// value fails at startup.
func WithFormat(f Format) Option {
	if !f.valid() {
		panic(fmt.Errorf("logger: unknown format %q, want %q or %q", f, FormatJSON, FormatText))
	}
	return func(s *settings) { s.format = f }
}

// WithTextFormatter is WithFormat(FormatText).
func WithTextFormatter() Option { return WithFormat(FormatText) }

// WithJSONFormatter is WithFormat(FormatJSON).
func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput redirects records to w. A nil writer keeps the current output.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr attaches attrs to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithContextExtractors adds extractors run for every record logged with a
// context. Nil entries are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(s *settings) {
		for _, ex := range extractors {
			if ex != nil {
				s.extractors = append(s.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*settings) {}
	}
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(key)
		return slog.Any(name, v), v != nil
	})
}
