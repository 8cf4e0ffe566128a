package opensearch

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
}

// WithLogger sets the logger used by the client, its transport and topology watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHTTPClient replaces the default HTTP client, e.g. for custom TLS settings.
// Config.RequestTimeout is not applied to a caller supplied client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// TransportOption configures a Transport.
type TransportOption func(*transportOptions)

type transportOptions struct {
	httpClient     *http.Client
	maxAttempts    int
	retryBackoff   time.Duration
	requestTimeout time.Duration
	username       string
	password       string
	logger         *slog.Logger
}

// WithMaxAttempts bounds how many endpoints one request may try.
func WithMaxAttempts(n int) TransportOption {
	return func(o *transportOptions) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRetryBackoff waits d between attempts.
func WithRetryBackoff(d time.Duration) TransportOption {
	return func(o *transportOptions) {
		if d > 0 {
			o.retryBackoff = d
		}
	}
}

// WithRequestTimeout bounds a single attempt including reading the body.
// Ignored when WithTransportHTTPClient is used.
func WithRequestTimeout(d time.Duration) TransportOption {
	return func(o *transportOptions) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

func WithBasicAuth(username, password string) TransportOption {
	return func(o *transportOptions) {
		o.username = username
		o.password = password
	}
}

func WithTransportHTTPClient(client *http.Client) TransportOption {
	return func(o *transportOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

func WithTransportLogger(logger *slog.Logger) TransportOption {
	return func(o *transportOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
