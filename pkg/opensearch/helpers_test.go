package opensearch_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/geoindex/pkg/logger"
	"github.com/dmitrymomot/geoindex/pkg/opensearch"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
	Header   http.Header
}

// fakeNode is a single cluster node that records every request it receives.
type fakeNode struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeNode(t *testing.T, handler http.HandlerFunc) *fakeNode {
	t.Helper()

	n := &fakeNode{}
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		n.mu.Lock()
		n.requests = append(n.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Body:     string(body),
			Header:   r.Header.Clone(),
		})
		n.mu.Unlock()

		if handler == nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(n.Close)

	return n
}

func (n *fakeNode) Requests() []recordedRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]recordedRequest, len(n.requests))
	copy(out, n.requests)
	return out
}

func (n *fakeNode) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.requests)
}

// lastRequest returns the most recent request and fails the test if there is none.
func (n *fakeNode) lastRequest(t *testing.T) recordedRequest {
	t.Helper()
	reqs := n.Requests()
	require.NotEmpty(t, reqs)
	return reqs[len(reqs)-1]
}

// deadAddress returns the URL of a server that has already been shut down,
// so connecting to it fails at the transport level.
func deadAddress(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()
	return addr
}

func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			_, _ = w.Write([]byte(body))
		}
	}
}

func newTestClient(t *testing.T, cfg opensearch.Config) *opensearch.Client {
	t.Helper()
	if cfg.Index == "" {
		cfg.Index = "geo"
	}
	client, err := opensearch.NewClient(cfg, opensearch.WithLogger(logger.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
