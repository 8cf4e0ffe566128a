package opensearch

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed indicates the client could not be created or the cluster
	// did not answer the initial probe. Use errors.Is() to check.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	// ErrHealthcheckFailed indicates the cluster is unreachable or unhealthy.
	// Returned by both Connect() during initialization and Healthcheck() during monitoring.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")

	// ErrClosed is returned by every operation issued after Close.
	ErrClosed = errors.New("opensearch client is closed")

	// ErrEmptyEndpointSet is returned when an endpoint set replacement would leave no endpoints.
	ErrEmptyEndpointSet = errors.New("opensearch endpoint set must not be empty")

	// ErrNoEndpoints is returned when a request is issued and no endpoint is available.
	ErrNoEndpoints = errors.New("opensearch has no endpoints to send the request to")

	// ErrInvalidEndpoint is returned for addresses that are not http(s) URIs with a host.
	ErrInvalidEndpoint = errors.New("invalid opensearch endpoint")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid opensearch config")

	// ErrNotAcknowledged is returned when an index or mapping creation was not acknowledged.
	ErrNotAcknowledged = errors.New("operation was not acknowledged by the cluster")

	// ErrEmptyBatch is returned by bulk operations called without items.
	ErrEmptyBatch = errors.New("bulk batch is empty")
)

// TransportError reports that a request could not be delivered to any endpoint
// within its attempt budget (connection refused, timeout, DNS failure).
type TransportError struct {
	// Endpoint is the endpoint of the last attempt.
	Endpoint Endpoint
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Attempts == 0 {
		return fmt.Sprintf("opensearch transport failure: %v", e.Err)
	}
	return fmt.Sprintf("opensearch transport failure after %d attempt(s), last endpoint %s: %v",
		e.Attempts, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx answer from the cluster. Body is kept verbatim.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	const maxBody = 256
	body := e.Body
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	if len(body) == 0 {
		return fmt.Sprintf("opensearch HTTP error %d", e.StatusCode)
	}
	return fmt.Sprintf("opensearch HTTP error %d: %s", e.StatusCode, body)
}

// ErrorType returns the "error.type" reported by the cluster, if the body carries one.
func (e *HTTPError) ErrorType() string {
	var payload struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return ""
	}
	return payload.Error.Type
}

// ProtocolError means the response parsed but did not have the expected shape.
type ProtocolError struct {
	Field string
	Err   error
}

func (e *ProtocolError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("opensearch protocol error: %v", e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("opensearch protocol error: missing or invalid field %q", e.Field)
	}
	return fmt.Sprintf("opensearch protocol error: field %q: %v", e.Field, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, if it is (or wraps) an *HTTPError.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// IsNotFound reports whether err is an HTTP 404 from the cluster.
func IsNotFound(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == 404
}

// isAlreadyExists reports whether a create call failed because the resource exists.
func isAlreadyExists(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 400 {
		return false
	}
	switch httpErr.ErrorType() {
	case "resource_already_exists_exception", "index_already_exists_exception":
		return true
	}
	return false
}
