package flipt

import (
	"errors"
	"time"

	"github.com/dmitrymomot/flags-flipt/pkg/config"
)

// Built-in defaults, used when neither the explicit config nor the environment set a value.
const (
	DefaultURL       = "http://localhost:8080"
	DefaultNamespace = "default"
)

// Config is the caller-supplied adapter configuration. Every field is optional.
type Config struct {
	URL       string
	Namespace string
	// Authentication, when set, wins as a whole over the environment,
	// even when its token is empty.
	Authentication *Authentication
	// UpdateInterval enables refreshing the cached client before reuse
	// once the interval has elapsed. Zero disables refreshing.
	UpdateInterval time.Duration
}

// Authentication holds the credentials sent to Flipt.
type Authentication struct {
	ClientToken string
}

// EnvConfig is the environment layer of the configuration.
type EnvConfig struct {
	URL                   string `env:"FLIPT_URL"`
	Namespace             string `env:"FLIPT_NAMESPACE"`
	ClientToken           string `env:"FLIPT_CLIENT_TOKEN"`
	UpdateIntervalSeconds int    `env:"FLIPT_UPDATE_INTERVAL"`
}

// Config converts the environment layer into a Config source.
func (e EnvConfig) Config() Config {
	c := Config{
		URL:       e.URL,
		Namespace: e.Namespace,
	}
	if e.ClientToken != "" {
		c.Authentication = &Authentication{ClientToken: e.ClientToken}
	}
	if e.UpdateIntervalSeconds > 0 {
		c.UpdateInterval = time.Duration(e.UpdateIntervalSeconds) * time.Second
	}
	return c
}

// ParseEnv reads the environment layer from an explicit environ map.
func ParseEnv(environ map[string]string) (EnvConfig, error) {
	cfg, err := config.Parse[EnvConfig](environ)
	if err != nil {
		return EnvConfig{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration layer.
func Defaults() Config {
	return Config{
		URL:            DefaultURL,
		Namespace:      DefaultNamespace,
		Authentication: &Authentication{},
	}
}

// Settings is the effective configuration a client is built from.
type Settings struct {
	URL            string
	Namespace      string
	ClientToken    string
	UpdateInterval time.Duration
}

// ResolveSettings picks, per field, the first value set in sources.
// Callers pass sources in priority order, typically (explicit, environment, Defaults()).
func ResolveSettings(sources ...Config) Settings {
	var (
		s       Settings
		hasAuth bool
	)
	for _, src := range sources {
		if s.URL == "" {
			s.URL = src.URL
		}
		if s.Namespace == "" {
			s.Namespace = src.Namespace
		}
		if !hasAuth && src.Authentication != nil {
			s.ClientToken = src.Authentication.ClientToken
			hasAuth = true
		}
		if s.UpdateInterval <= 0 && src.UpdateInterval > 0 {
			s.UpdateInterval = src.UpdateInterval
		}
	}
	return s
}

// key identifies the engine connection; clients are shared between settings with equal keys.
func (s Settings) key() string {
	return s.URL + "\x00" + s.Namespace + "\x00" + s.ClientToken
}
