package opensearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/geoindex/pkg/async"
	"github.com/dmitrymomot/geoindex/pkg/logger"
)

// Transport sends requests to a set of equivalent nodes, picking one per attempt
// with a round-robin cursor. Only transport-level failures are retried, each retry
// on the next endpoint; any HTTP answer, including 4xx/5xx, ends the request.
//
// The endpoint set lives behind an atomic pointer and is replaced as a whole, so
// reads never take a lock. A request that loaded a set before a swap may finish
// against the older set.
//
// Transport implements opensearchapi.Transport.
type Transport struct {
	endpoints atomic.Pointer[EndpointSet]
	cursor    atomic.Uint64
	closed    atomic.Bool

	client       *http.Client
	ownsClient   bool
	maxAttempts  int
	retryBackoff time.Duration
	username     string
	password     string
	logger       *slog.Logger
}

var _ opensearchapi.Transport = (*Transport)(nil)

// NewTransport creates a transport over the given endpoints.
func NewTransport(endpoints EndpointSet, opts ...TransportOption) (*Transport, error) {
	if endpoints.Len() == 0 {
		return nil, ErrEmptyEndpointSet
	}

	o := &transportOptions{
		maxAttempts:    DefaultMaxAttempts,
		requestTimeout: DefaultRequestTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	t := &Transport{
		client:       o.httpClient,
		maxAttempts:  o.maxAttempts,
		retryBackoff: o.retryBackoff,
		username:     o.username,
		password:     o.password,
		logger:       o.logger,
	}
	if t.client == nil {
		t.client = &http.Client{
			Timeout: o.requestTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
		t.ownsClient = true
	}
	t.endpoints.Store(&endpoints)

	return t, nil
}

// Endpoints returns the current endpoint snapshot.
func (t *Transport) Endpoints() EndpointSet {
	if set := t.endpoints.Load(); set != nil {
		return *set
	}
	return EndpointSet{}
}

// SetEndpoints atomically replaces the endpoint set. An empty set is rejected
// and the previous one is kept.
func (t *Transport) SetEndpoints(set EndpointSet) error {
	if t.closed.Load() {
		return ErrClosed
	}
	if set.Len() == 0 {
		return ErrEmptyEndpointSet
	}
	t.endpoints.Store(&set)

	// Close may have run between the check above and the store.
	if t.closed.Load() {
		t.endpoints.Store(&EndpointSet{})
		return ErrClosed
	}
	return nil
}

// PerformRequest executes req with the full attempt budget.
func (t *Transport) PerformRequest(ctx context.Context, req opensearchapi.Request) *async.Future[*Response] {
	return async.Async(ctx, req, func(ctx context.Context, req opensearchapi.Request) (*Response, error) {
		return t.execute(ctx, req, t)
	})
}

// PerformRequestNoRetry executes req with a single attempt. Meant for health probes
// so that a fully down cluster fails fast.
func (t *Transport) PerformRequestNoRetry(ctx context.Context, req opensearchapi.Request) *async.Future[*Response] {
	return async.Async(ctx, req, func(ctx context.Context, req opensearchapi.Request) (*Response, error) {
		return t.execute(ctx, req, noRetry{t})
	})
}

// Perform sends an HTTP request with the full attempt budget. Relative request URLs are
// resolved against the chosen endpoint. HTTP error statuses are returned as responses.
func (t *Transport) Perform(req *http.Request) (*http.Response, error) {
	return t.perform(req, t.maxAttempts)
}

// Close rejects further requests and releases idle connections.
// In-flight requests finish or fail on their own timeouts.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	t.endpoints.Store(&EndpointSet{})
	if t.ownsClient {
		t.client.CloseIdleConnections()
	}
	return nil
}

type noRetry struct{ t *Transport }

func (n noRetry) Perform(req *http.Request) (*http.Response, error) {
	return n.t.perform(req, 1)
}

func (t *Transport) execute(ctx context.Context, req opensearchapi.Request, via opensearchapi.Transport) (*Response, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if logger.RequestIDFromContext(ctx) == "" {
		ctx = logger.ContextWithRequestID(ctx, uuid.NewString())
	}

	res, err := req.Do(ctx, via)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if res.IsError() {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: raw}
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, &ProtocolError{Err: fmt.Errorf("decode response body: %w", err)}
	}

	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: doc}, nil
}

func (t *Transport) perform(req *http.Request, attempts int) (*http.Response, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if req.URL == nil {
		return nil, errors.New("opensearch: request URL is nil")
	}

	ctx := req.Context()
	body, err := drainBody(req)
	if err != nil {
		return nil, err
	}

	req = req.Clone(ctx)
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if req.Header.Get(headerOpaqueID) == "" {
		id := logger.RequestIDFromContext(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		req.Header.Set(headerOpaqueID, id)
	}

	var (
		start   = t.cursor.Add(1) - 1
		last    Endpoint
		lastErr error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && t.retryBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(t.retryBackoff):
			}
		}

		ep, err := t.pick(start, attempt-1)
		if err != nil {
			return nil, err
		}
		last = ep

		t.logger.DebugContext(ctx, "sending request",
			logger.Component("opensearch"),
			logger.Method(req.Method),
			logger.Path(req.URL.Path),
			logger.Endpoint(ep),
			logger.RetryCount(attempt-1))

		start := time.Now()
		res, err := t.send(req, ep, body)
		if err == nil {
			t.logger.DebugContext(ctx, "request completed",
				logger.Component("opensearch"),
				logger.Endpoint(ep),
				logger.StatusCode(res.StatusCode),
				logger.Duration(time.Since(start)))
			return res, nil
		}

		// The caller gave up, trying another node would not help.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		t.logger.WarnContext(ctx, "request to endpoint failed",
			logger.Component("opensearch"),
			logger.Method(req.Method),
			logger.Path(req.URL.Path),
			logger.Endpoint(ep),
			logger.RetryCount(attempt-1),
			logger.Error(err))
	}

	return nil, &TransportError{Endpoint: last, Attempts: attempts, Err: lastErr}
}

// pick returns the endpoint for the given attempt of a request whose round-robin
// slot is start. Attempts walk the current snapshot from that slot, so the first
// Len() attempts of one request never repeat an endpoint.
func (t *Transport) pick(start uint64, attempt int) (Endpoint, error) {
	set := t.endpoints.Load()
	if set == nil || set.Len() == 0 {
		if t.closed.Load() {
			return Endpoint{}, ErrClosed
		}
		return Endpoint{}, ErrNoEndpoints
	}
	i := (start + uint64(attempt)) % uint64(set.Len())
	return set.At(int(i)), nil
}

func (t *Transport) send(req *http.Request, ep Endpoint, body []byte) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL = ep.resolve(req.URL)
	out.Host = ""
	out.RequestURI = ""

	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.ContentLength = int64(len(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	} else {
		out.Body = http.NoBody
		out.ContentLength = 0
		out.GetBody = nil
	}

	if t.username != "" && out.Header.Get("Authorization") == "" {
		out.SetBasicAuth(t.username, t.password)
	}

	return t.client.Do(out)
}

// drainBody reads the request body once so every attempt can replay it.
func drainBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("opensearch: read request body: %w", err)
	}
	return body, nil
}
