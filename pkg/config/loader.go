package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load populates a T from environment variables using `env` struct tags.
//
// When files are given they are loaded first and a missing or unreadable file is an error.
// Without files the default .env in the working directory is loaded if present.
// Variables already set in the process environment win over file values.
//
// Example:
//
//	type ClusterConfig struct {
//		Addresses []string `env:"OPENSEARCH_ADDRESSES,required"`
//		Index     string   `env:"OPENSEARCH_INDEX" envDefault:"georocket"`
//	}
//
//	cfg, err := config.Load[ClusterConfig]()
func Load[T any](files ...string) (T, error) {
	return LoadWithPrefix[T]("", files...)
}

// LoadWithPrefix works like Load but prepends prefix to every variable name,
// which allows several instances of the same struct (e.g. PRIMARY_, REPLICA_).
func LoadWithPrefix[T any](prefix string, files ...string) (T, error) {
	var zero T

	if err := loadEnvFiles(files...); err != nil {
		return zero, err
	}

	cfg, err := env.ParseAsWithOptions[T](env.Options{Prefix: prefix})
	if err != nil {
		return zero, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
// This is useful for configurations that are required for the application to start.
func MustLoad[T any](files ...string) T {
	cfg, err := Load[T](files...)
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		// The default .env file is optional.
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}
