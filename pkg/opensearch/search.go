package opensearch

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/geoindex/pkg/async"
)

// SearchRequest holds the already-built parts of a search body.
// Nil parts are left out. Params are copied into the body first, so Query,
// PostFilter and Aggregations override keys of the same name.
type SearchRequest struct {
	Query        Document
	PostFilter   Document
	Aggregations Document
	Params       Document
}

func (r SearchRequest) source() Document {
	out := make(Document, len(r.Params)+3)
	for k, v := range r.Params {
		out[k] = v
	}
	if r.Query != nil {
		out["query"] = r.Query
	}
	if r.PostFilter != nil {
		out["post_filter"] = r.PostFilter
	}
	if r.Aggregations != nil {
		out["aggs"] = r.Aggregations
	}
	return out
}

// BeginScroll starts a scroll over documents of typ. The scroll context is kept
// alive on the server for timeout (e.g. "1m"). Results are always sorted by _doc,
// whatever sort Params contains, since document order is the only efficient scan order.
func (c *Client) BeginScroll(ctx context.Context, typ string, req SearchRequest, timeout string) *async.Future[Document] {
	source := req.source()
	source["sort"] = []string{"_doc"}

	path := c.path(typ, "_search") + "?scroll=" + url.QueryEscape(timeout)
	return c.performJSON(ctx, http.MethodGet, path, source)
}

// ContinueScroll fetches the next page of a scroll. scrollID is passed through as is.
func (c *Client) ContinueScroll(ctx context.Context, scrollID, timeout string) *async.Future[Document] {
	return c.performJSON(ctx, http.MethodGet, "/_search/scroll", Document{
		"scroll":    timeout,
		"scroll_id": scrollID,
	})
}

// ClearScroll releases scroll contexts before their timeout expires.
func (c *Client) ClearScroll(ctx context.Context, scrollIDs ...string) *async.Future[Document] {
	if len(scrollIDs) == 0 {
		return async.Resolved(Document{})
	}
	return c.performJSON(ctx, http.MethodDelete, "/_search/scroll", Document{
		"scroll_id": scrollIDs,
	})
}

// Search runs a single search over documents of typ.
func (c *Client) Search(ctx context.Context, typ string, req SearchRequest) *async.Future[Document] {
	return c.performJSON(ctx, http.MethodGet, c.path(typ, "_search"), req.source())
}

// Count returns the number of documents of typ matching query (all documents if nil).
func (c *Client) Count(ctx context.Context, typ string, query Document) *async.Future[int64] {
	source := Document{}
	if query != nil {
		source["query"] = query
	}

	res := c.performJSON(ctx, http.MethodGet, c.path(typ, "_count"), source)
	return async.Map(res, func(doc Document) (int64, error) {
		n, ok := doc.Int64("count")
		if !ok {
			return 0, &ProtocolError{Field: "count"}
		}
		return n, nil
	})
}

// UpdateByQuery runs script on every document of typ matching postFilter.
func (c *Client) UpdateByQuery(ctx context.Context, typ string, postFilter, script Document) *async.Future[Document] {
	source := Document{}
	if postFilter != nil {
		source["post_filter"] = postFilter
	}
	if script != nil {
		source["script"] = script
	}
	return c.performJSON(ctx, http.MethodPost, c.path(typ, "_update_by_query"), source)
}
