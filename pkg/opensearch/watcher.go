package opensearch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/geoindex/pkg/async"
	"github.com/dmitrymomot/geoindex/pkg/logger"
)

// watcher keeps the transport's endpoint set in line with the nodes the cluster
// advertises. Failures are logged and never reach request traffic.
type watcher struct {
	transport *Transport
	logger    *slog.Logger
	running   atomic.Bool
}

func newWatcher(transport *Transport, log *slog.Logger) *watcher {
	return &watcher{transport: transport, logger: log}
}

// tick runs one refresh. Overlapping ticks are skipped.
func (w *watcher) tick(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		w.logger.DebugContext(ctx, "previous topology refresh still running, skipping tick",
			logger.Component("topology"))
		return
	}
	defer w.running.Store(false)

	if _, err := w.refresh(ctx); err != nil {
		w.logger.ErrorContext(ctx, "could not update list of cluster endpoints",
			logger.Component("topology"),
			logger.Error(err))
	}
}

// refresh discovers the cluster nodes and swaps the endpoint set if it changed.
// It reports whether a swap happened.
func (w *watcher) refresh(ctx context.Context) (bool, error) {
	candidates, err := w.discover(ctx).AwaitContext(ctx)
	if err != nil {
		return false, err
	}

	current := w.transport.Endpoints()
	if candidates.Equal(current) {
		return false, nil
	}
	if err := w.transport.SetEndpoints(candidates); err != nil {
		return false, err
	}

	w.logger.InfoContext(ctx, "updated list of cluster endpoints",
		logger.Component("topology"),
		logger.Endpoints(candidates.All()),
		logger.Group("size", slog.Int("previous", current.Len()), slog.Int("current", candidates.Len())))
	return true, nil
}

// discover asks the cluster for its HTTP-enabled nodes.
func (w *watcher) discover(ctx context.Context) *async.Future[EndpointSet] {
	scheme := "http"
	if current := w.transport.Endpoints(); current.Len() > 0 {
		scheme = current.At(0).Scheme
	}

	res := w.transport.PerformRequest(ctx, opensearchapi.NodesInfoRequest{Metric: []string{"http"}})
	return async.Map(res, func(res *Response) (EndpointSet, error) {
		return w.parseNodes(ctx, scheme, res.Body)
	})
}

func (w *watcher) parseNodes(ctx context.Context, scheme string, body Document) (EndpointSet, error) {
	nodes, ok := body.Object("nodes")
	if !ok {
		return EndpointSet{}, &ProtocolError{Field: "nodes"}
	}

	endpoints := make([]Endpoint, 0, len(nodes))
	for id := range nodes {
		node, ok := nodes.Object(id)
		if !ok {
			continue
		}
		// Nodes without HTTP enabled or without an advertised address are not reachable.
		httpInfo, ok := node.Object("http")
		if !ok {
			continue
		}
		addr, ok := httpInfo.String("publish_address")
		if !ok || addr == "" {
			continue
		}

		ep, err := parsePublishAddress(scheme, addr)
		if err != nil {
			w.logger.WarnContext(ctx, "ignoring node with unusable publish address",
				logger.Component("topology"),
				slog.String("node_id", id),
				logger.Error(err))
			continue
		}
		endpoints = append(endpoints, ep)
	}

	return NewEndpointSet(endpoints...).sorted(), nil
}
