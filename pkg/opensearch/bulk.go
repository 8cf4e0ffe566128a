package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/geoindex/pkg/async"
)

// BulkAction tags a bulk item.
type BulkAction string

const (
	BulkActionIndex  BulkAction = "index"
	BulkActionDelete BulkAction = "delete"
)

// BulkItem is one entry of a bulk batch. Source is only used by index items
// and may be any value that encodes to a JSON object.
type BulkItem struct {
	Action BulkAction
	ID     string
	Source any
}

// IndexItem returns an index item for a document.
func IndexItem(id string, source any) BulkItem {
	return BulkItem{Action: BulkActionIndex, ID: id, Source: source}
}

// DeleteItem returns a delete item.
func DeleteItem(id string) BulkItem {
	return BulkItem{Action: BulkActionDelete, ID: id}
}

// IndexDocument pairs a document with its id.
type IndexDocument struct {
	ID     string
	Source any
}

// EncodeBulk renders items in the line oriented bulk format, preserving order:
// an action line per item, followed by the document line for index items.
// Every line ends with a newline.
func EncodeBulk(items []BulkItem) ([]byte, error) {
	var buf bytes.Buffer
	for i, item := range items {
		switch item.Action {
		case BulkActionIndex, BulkActionDelete:
		default:
			return nil, fmt.Errorf("opensearch: bulk item %d: unknown action %q", i, item.Action)
		}

		action, err := encodeJSON(map[BulkAction]map[string]string{
			item.Action: {"_id": item.ID},
		})
		if err != nil {
			return nil, err
		}
		buf.Write(action)
		buf.WriteByte('\n')

		if item.Action != BulkActionIndex {
			continue
		}
		source, err := encodeJSON(item.Source)
		if err != nil {
			return nil, fmt.Errorf("opensearch: bulk item %d (%s): %w", i, item.ID, err)
		}
		buf.Write(source)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Bulk sends a mixed batch of index and delete items to POST /{index}/{type}/_bulk.
// The result is the raw bulk response; per-item failures are reported there.
func (c *Client) Bulk(ctx context.Context, typ string, items []BulkItem) *async.Future[Document] {
	if len(items) == 0 {
		return async.Failed[Document](ErrEmptyBatch)
	}
	body, err := EncodeBulk(items)
	if err != nil {
		return async.Failed[Document](err)
	}
	return responseBody(c.perform(ctx, Request{
		Method:      http.MethodPost,
		Path:        c.path(typ, "_bulk"),
		Body:        body,
		ContentType: contentTypeNDJSON,
	}))
}

// BulkInsert indexes documents in order.
func (c *Client) BulkInsert(ctx context.Context, typ string, docs []IndexDocument) *async.Future[Document] {
	items := make([]BulkItem, len(docs))
	for i, d := range docs {
		items[i] = IndexItem(d.ID, d.Source)
	}
	return c.Bulk(ctx, typ, items)
}

// BulkDelete deletes the documents with the given ids in order.
func (c *Client) BulkDelete(ctx context.Context, typ string, ids []string) *async.Future[Document] {
	items := make([]BulkItem, len(ids))
	for i, id := range ids {
		items[i] = DeleteItem(id)
	}
	return c.Bulk(ctx, typ, items)
}
