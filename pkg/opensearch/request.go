package opensearch

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

const (
	headerContentType = "Content-Type"
	headerOpaqueID    = "X-Opaque-Id"

	contentTypeJSON   = "application/json"
	contentTypeNDJSON = "application/x-ndjson"
)

// Request is a raw REST call: verb, path (with optional query) and body.
// It implements opensearchapi.Request so raw calls and the typed opensearchapi
// requests travel through the same transport.
type Request struct {
	Method string
	Path   string
	Body   []byte

	// ContentType defaults to application/json when a body is present.
	ContentType string
}

// Do sends the request through transport.
func (r Request) Do(ctx context.Context, transport opensearchapi.Transport) (*opensearchapi.Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.Path, body)
	if err != nil {
		return nil, err
	}
	if r.Body != nil {
		ct := r.ContentType
		if ct == "" {
			ct = contentTypeJSON
		}
		req.Header.Set(headerContentType, ct)
	}

	res, err := transport.Perform(req)
	if err != nil {
		return nil, err
	}
	return &opensearchapi.Response{
		StatusCode: res.StatusCode,
		Body:       res.Body,
		Header:     res.Header,
	}, nil
}

// jsonRequest encodes body as JSON, or sends no body when body is nil.
func jsonRequest(method, path string, body any) (Request, error) {
	req := Request{Method: method, Path: path}
	if body == nil {
		return req, nil
	}
	raw, err := encodeJSON(body)
	if err != nil {
		return Request{}, err
	}
	req.Body = raw
	return req, nil
}

// Response is a successful (2xx) answer with its decoded body.
// HEAD responses carry an empty document.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       Document
}
