package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environ returns the process environment layered over the given .env files.
// Files are applied in order, so later files override earlier ones, and the
// process environment overrides all of them. Files that don't exist are skipped.
func Environ(files ...string) (map[string]string, error) {
	result := make(map[string]string)

	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Join(ErrReadingEnvFile, fmt.Errorf("%s: %w", file, err))
		}
		maps.Copy(result, values)
	}

	maps.Copy(result, env.ToMap(os.Environ()))

	return result, nil
}

// Parse populates a new T from the given environment map using `env` struct tags.
// A nil map is treated as an empty environment.
//
// Example:
//
//	type Settings struct {
//		URL string `env:"FLIPT_URL" envDefault:"http://localhost:8080"`
//	}
//
//	s, err := config.Parse[Settings](map[string]string{"FLIPT_URL": "https://flipt.example.com"})
func Parse[T any](environ map[string]string) (T, error) {
	var v T
	if environ == nil {
		environ = map[string]string{}
	}
	if err := env.ParseWithOptions(&v, env.Options{Environment: environ}); err != nil {
		var zero T
		return zero, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// MustParse works like Parse but panics if parsing fails.
// Use it for configuration that is required for the application to start.
func MustParse[T any](environ map[string]string) T {
	v, err := Parse[T](environ)
	if err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
	return v
}
