package opensearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/geoindex/pkg/async"
	"github.com/dmitrymomot/geoindex/pkg/logger"
	"github.com/dmitrymomot/geoindex/pkg/scheduler"
)

// Client talks to one index of a cluster. All operations are asynchronous and
// return a *async.Future that completes exactly once. Client is safe for concurrent use.
type Client struct {
	index     string
	transport *Transport
	scheduler *scheduler.Scheduler
	watcher   *watcher
	flights   singleflight.Group
	logger    *slog.Logger
}

// NewClient builds a client from cfg without touching the network.
// If cfg.RefreshInterval is set, a periodic topology refresh is started
// and owned by the client until Close.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	endpoints, err := cfg.Endpoints()
	if err != nil {
		return nil, err
	}

	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	transport, err := NewTransport(endpoints,
		WithMaxAttempts(cfg.maxAttempts()),
		WithRetryBackoff(cfg.RetryBackoff),
		WithRequestTimeout(cfg.requestTimeout()),
		WithBasicAuth(cfg.Username, cfg.Password),
		WithTransportHTTPClient(o.httpClient),
		WithTransportLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	c := &Client{
		index:     cfg.Index,
		transport: transport,
		logger:    o.logger,
	}

	if cfg.RefreshInterval > 0 {
		c.watcher = newWatcher(transport, o.logger)
		c.scheduler = scheduler.New(scheduler.WithLogger(o.logger))
		if _, err := c.scheduler.Every(cfg.RefreshInterval, c.watcher.tick); err != nil {
			_ = transport.Close()
			return nil, err
		}
	}

	return c, nil
}

// Index returns the name of the index the client operates on.
func (c *Client) Index() string { return c.index }

// Transport exposes the underlying load-balancing transport.
func (c *Client) Transport() *Transport { return c.transport }

// Endpoints returns the current endpoint snapshot.
func (c *Client) Endpoints() EndpointSet { return c.transport.Endpoints() }

// RefreshTopology runs one topology discovery immediately, independent of the
// periodic schedule. It reports whether the endpoint set changed.
func (c *Client) RefreshTopology(ctx context.Context) *async.Future[bool] {
	w := c.watcher
	if w == nil {
		w = newWatcher(c.transport, c.logger)
	}
	return async.Async(ctx, w, func(ctx context.Context, w *watcher) (bool, error) {
		return w.refresh(ctx)
	})
}

// Close stops the topology refresh and rejects new operations.
// Requests already dispatched complete or fail on their own.
func (c *Client) Close() error {
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
	if err := c.transport.Close(); err != nil {
		return err
	}
	c.logger.Debug("opensearch client closed", logger.Component("opensearch"), logger.Index(c.index))
	return nil
}

// perform issues a raw request with the full retry budget.
func (c *Client) perform(ctx context.Context, req Request) *async.Future[*Response] {
	return c.transport.PerformRequest(ctx, req)
}

// performJSON encodes body and issues the request, returning the response document.
func (c *Client) performJSON(ctx context.Context, method, path string, body any) *async.Future[Document] {
	req, err := jsonRequest(method, path, body)
	if err != nil {
		return async.Failed[Document](fmt.Errorf("opensearch: encode request body: %w", err))
	}
	return responseBody(c.perform(ctx, req))
}

// path joins escaped segments below the client's index.
func (c *Client) path(segments ...string) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(url.PathEscape(c.index))
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func responseBody(f *async.Future[*Response]) *async.Future[Document] {
	return async.Map(f, func(res *Response) (Document, error) {
		return res.Body, nil
	})
}
