package opensearch

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultIndex          = "georocket"
	DefaultMaxAttempts    = 3
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds the cluster connection parameters with environment variable mapping.
// Uses struct tags compatible with github.com/dmitrymomot/geoindex/pkg/config for
// zero-config environment-based initialization.
type Config struct {
	Addresses []string `env:"OPENSEARCH_ADDRESSES,required" envSeparator:","`
	Index     string   `env:"OPENSEARCH_INDEX" envDefault:"georocket"`

	// RefreshInterval drives topology discovery. Zero disables it and no
	// background task is started.
	RefreshInterval time.Duration `env:"OPENSEARCH_REFRESH_INTERVAL"`

	// MaxAttempts bounds how many endpoints one request may try on transport failures.
	MaxAttempts    int           `env:"OPENSEARCH_MAX_ATTEMPTS" envDefault:"3"`
	RetryBackoff   time.Duration `env:"OPENSEARCH_RETRY_BACKOFF"`
	RequestTimeout time.Duration `env:"OPENSEARCH_REQUEST_TIMEOUT" envDefault:"30s"`

	// Basic auth credentials, passed through unchanged on every request.
	Username string `env:"OPENSEARCH_USERNAME"`
	Password string `env:"OPENSEARCH_PASSWORD"`
}

// Validate checks the config without touching the network.
func (c Config) Validate() error {
	if len(c.Addresses) == 0 {
		return fmt.Errorf("%w: at least one address is required", ErrInvalidConfig)
	}
	if c.Index == "" {
		return fmt.Errorf("%w: index is required", ErrInvalidConfig)
	}
	if c.MaxAttempts < 0 || c.RetryBackoff < 0 || c.RequestTimeout < 0 || c.RefreshInterval < 0 {
		return fmt.Errorf("%w: attempts and durations must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseEndpointSet(c.Addresses); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}

// Endpoints validates the config and returns the initial endpoint set.
func (c Config) Endpoints() (EndpointSet, error) {
	if err := c.Validate(); err != nil {
		return EndpointSet{}, err
	}
	return ParseEndpointSet(c.Addresses)
}

func (c Config) maxAttempts() int {
	if c.MaxAttempts == 0 {
		return DefaultMaxAttempts
	}
	return c.MaxAttempts
}

func (c Config) requestTimeout() time.Duration {
	if c.RequestTimeout == 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}
