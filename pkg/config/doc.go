// Package config reads typed configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11` with two
// small helpers:
//
//   - Environ builds an explicit environment map from the process environment
//     layered over optional `.env` files.
//   - Parse populates any struct annotated with `env` tags from such a map.
//
// Parsing against an explicit map instead of the live process environment
// keeps configuration resolution testable without mutating global state.
//
// # Usage
//
//	type FliptEnv struct {
//	    URL       string `env:"FLIPT_URL"`
//	    Namespace string `env:"FLIPT_NAMESPACE"`
//	}
//
//	environ, err := config.Environ(".env")
//	if err != nil {
//	    log.Fatalf("reading env: %v", err)
//	}
//	cfg, err := config.Parse[FliptEnv](environ)
//	if err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// Values already present in the process environment always win over values
// read from `.env` files. Missing `.env` files are ignored.
//
// # Error Handling
//
// The package defines sentinel errors that can be compared with `errors.Is`:
//
//   - `ErrParsingConfig`: failed to parse env vars into struct.
//   - `ErrReadingEnvFile`: an existing `.env` file could not be read.
//
// # See Also
//
//   - https://github.com/joho/godotenv: .env file loader.
//   - https://github.com/caarlos0/env: environment parser.
package config
