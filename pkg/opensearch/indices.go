package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/geoindex/pkg/async"
	"github.com/dmitrymomot/geoindex/pkg/logger"
)

// IndexExists reports whether the index exists. HTTP 404 maps to false,
// any other failure is returned unchanged.
func (c *Client) IndexExists(ctx context.Context) *async.Future[bool] {
	return c.exists(ctx, opensearchapi.IndicesExistsRequest{Index: []string{c.index}})
}

// TypeExists reports whether a mapping for typ exists in the index.
func (c *Client) TypeExists(ctx context.Context, typ string) *async.Future[bool] {
	return c.exists(ctx, Request{Method: http.MethodHead, Path: c.path("_mapping", typ)})
}

func (c *Client) exists(ctx context.Context, req opensearchapi.Request) *async.Future[bool] {
	found := async.Map(c.transport.PerformRequest(ctx, req), func(*Response) (bool, error) {
		return true, nil
	})
	return async.Recover(found, func(err error) (bool, error) {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	})
}

// CreateIndex creates the index, with settings if they are not nil.
// The result is the acknowledged flag, true when the response omits it.
func (c *Client) CreateIndex(ctx context.Context, settings Document) *async.Future[bool] {
	req := opensearchapi.IndicesCreateRequest{Index: c.index}
	if settings != nil {
		body, err := encodeJSON(Document{"settings": settings})
		if err != nil {
			return async.Failed[bool](fmt.Errorf("opensearch: encode index settings: %w", err))
		}
		req.Body = bytes.NewReader(body)
	}
	return acknowledged(c.transport.PerformRequest(ctx, req))
}

// EnsureIndex creates the index unless it already exists.
//
// Concurrent calls on one client share a single check-and-create. Across clients the
// check is not atomic, so a create that loses the race with
// resource_already_exists_exception is treated as success.
func (c *Client) EnsureIndex(ctx context.Context) *async.Future[struct{}] {
	return c.shared(ctx, "index", func(ctx context.Context) *async.Future[struct{}] {
		return async.Then(c.IndexExists(ctx), func(exists bool) *async.Future[struct{}] {
			if exists {
				return async.Resolved(struct{}{})
			}
			c.logger.InfoContext(ctx, "creating index", logger.Component("opensearch"), logger.Index(c.index))
			created := async.Recover(c.CreateIndex(ctx, nil), func(err error) (bool, error) {
				if isAlreadyExists(err) {
					return true, nil
				}
				return false, err
			})
			return requireAck(created, "index creation")
		})
	})
}

// PutMapping creates or updates the mapping of typ.
func (c *Client) PutMapping(ctx context.Context, typ string, mapping Document) *async.Future[bool] {
	req, err := jsonRequest(http.MethodPut, c.path("_mapping", typ), mapping)
	if err != nil {
		return async.Failed[bool](fmt.Errorf("opensearch: encode mapping: %w", err))
	}
	return acknowledged(c.perform(ctx, req))
}

// GetMapping returns the mapping of typ, or of a single field when field is not empty.
func (c *Client) GetMapping(ctx context.Context, typ, field string) *async.Future[Document] {
	path := c.path("_mapping", typ)
	if field != "" {
		path = c.path("_mapping", typ, "field", field)
	}
	return responseBody(c.perform(ctx, Request{Method: http.MethodGet, Path: path}))
}

// EnsureMapping puts mapping for typ unless a mapping for typ already exists.
// It shares the single-flight behaviour of EnsureIndex.
func (c *Client) EnsureMapping(ctx context.Context, typ string, mapping Document) *async.Future[struct{}] {
	return c.shared(ctx, "mapping/"+typ, func(ctx context.Context) *async.Future[struct{}] {
		return async.Then(c.TypeExists(ctx, typ), func(exists bool) *async.Future[struct{}] {
			if exists {
				return async.Resolved(struct{}{})
			}
			c.logger.InfoContext(ctx, "creating mapping",
				logger.Component("opensearch"), logger.Index(c.index), slog.String("type", typ))
			return requireAck(c.PutMapping(ctx, typ, mapping), "mapping creation")
		})
	})
}

// EnsureMappings runs EnsureMapping for every type in mappings concurrently and
// fails with the first error in type order.
func (c *Client) EnsureMappings(ctx context.Context, mappings map[string]Document) *async.Future[struct{}] {
	types := slices.Sorted(maps.Keys(mappings))
	return async.Async(ctx, types, func(ctx context.Context, types []string) (struct{}, error) {
		pending := make([]*async.Future[struct{}], len(types))
		for i, typ := range types {
			pending[i] = c.EnsureMapping(ctx, typ, mappings[typ])
		}
		if _, err := async.WaitAll(pending...); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
}

// shared runs op at most once at a time per key. Callers joining a running op
// get its result; each caller still stops waiting when its own ctx is done.
// The shared op itself is detached from the first caller's cancellation.
func (c *Client) shared(ctx context.Context, key string, op func(context.Context) *async.Future[struct{}]) *async.Future[struct{}] {
	return async.Async(ctx, key, func(ctx context.Context, key string) (struct{}, error) {
		ch := c.flights.DoChan(key, func() (any, error) {
			return op(context.WithoutCancel(ctx)).Await()
		})
		select {
		case res := <-ch:
			return struct{}{}, res.Err
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		}
	})
}

func acknowledged(f *async.Future[*Response]) *async.Future[bool] {
	return async.Map(f, func(res *Response) (bool, error) {
		return res.Body.Bool("acknowledged", true), nil
	})
}

func requireAck(f *async.Future[bool], what string) *async.Future[struct{}] {
	return async.Map(f, func(ack bool) (struct{}, error) {
		if !ack {
			return struct{}{}, fmt.Errorf("%s: %w", what, ErrNotAcknowledged)
		}
		return struct{}{}, nil
	})
}
