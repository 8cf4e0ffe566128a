// Package config loads typed configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` (optional .env files) and
// `github.com/caarlos0/env/v11` (struct-tag based parsing) behind three generic helpers:
//
//   - Load[T] parses T from the environment, loading .env files first.
//   - LoadWithPrefix[T] does the same with a variable-name prefix.
//   - MustLoad[T] panics on failure, for configuration the process cannot start without.
//
// # Usage
//
//	cfg, err := config.Load[opensearch.Config]()
//	if err != nil {
//	    log.Fatalf("loading config: %v", err)
//	}
//
// # Error Handling
//
// Failures are joined with ErrParsingConfig or ErrLoadingEnvFile so callers can use errors.Is.
package config
