package logger

import (
	"io"
	"log/slog"
	"os"
)

// Format is the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

func (f Format) valid() bool {
	return f == FormatJSON || f == FormatText
}

func (f Format) handler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if f == FormatText {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Environment names understood by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type preset struct {
	level  slog.Level
	format Format
}

var presets = map[string]preset{
	EnvDevelopment: {level: slog.LevelDebug, format: FormatText},
	EnvStaging:     {level: slog.LevelInfo, format: FormatJSON},
	EnvProduction:  {level: slog.LevelInfo, format: FormatJSON},
}

var envAliases = map[string]string{
	"prod":  EnvProduction,
	"stage": EnvStaging,
}

// WithDevelopment logs text at debug level, tagged with service and env.
func WithDevelopment(service string) Option { return withPreset(service, EnvDevelopment) }

// WithStaging logs JSON at info level, tagged with service and env.
func WithStaging(service string) Option { return withPreset(service, EnvStaging) }

// WithProduction logs JSON at info level, tagged with service and env.
func WithProduction(service string) Option { return withPreset(service, EnvProduction) }

// WithEnvironment picks the preset for env ("prod" and "stage" are accepted
// as aliases). Anything unrecognised gets the development preset.
func WithEnvironment(env, service string) Option {
	if alias, ok := envAliases[env]; ok {
		env = alias
	}
	if _, ok := presets[env]; !ok {
		env = EnvDevelopment
	}
	return withPreset(service, env)
}

// withPreset is a no-op without a service name.
func withPreset(service, env string) Option {
	p := presets[env]
	return func(s *settings) {
		if service == "" {
			return
		}
		s.level, s.format = p.level, p.format
		s.attrs = append(s.attrs, slog.String("service", service), slog.String("env", env))
	}
}

type settings struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// New builds a logger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	s := &settings{level: slog.LevelInfo, format: FormatJSON, output: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}

	h := s.format.handler(s.output, &slog.HandlerOptions{Level: s.level})
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}
	return slog.New(NewContextHandler(h, s.extractors...))
}

// SetAsDefault installs l as the slog default.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
