// Package opensearch is the data-store client layer of the geospatial index: a
// load-balancing HTTP transport over a set of equivalent cluster nodes plus a client
// for one index that implements bulk writes, scroll search, counting and
// index/mapping lifecycle management.
//
// The package builds on github.com/opensearch-project/opensearch-go/v2/opensearchapi:
// Transport implements opensearchapi.Transport, so the typed API requests (ping,
// index exists/create, nodes info) and the raw Request type travel through the same
// retrying, round-robin path. The main touch points are:
//
//   - Config: connection settings that can be populated from environment variables via
//     github.com/dmitrymomot/geoindex/pkg/config.
//
//   - NewClient / Connect: build a *Client; Connect additionally probes the cluster.
//
//   - Transport: picks the next endpoint for every attempt, retries transport
//     failures on another endpoint and never retries HTTP error statuses.
//
//   - Topology refresh: with Config.RefreshInterval set, the client periodically reads
//     GET /_nodes/http and atomically swaps its endpoint set when the advertised HTTP
//     addresses change. Failed refreshes are logged and leave the set untouched.
//
//   - Healthcheck: a func(context.Context) error for readiness probes.
//
// Every operation returns a *async.Future from github.com/dmitrymomot/geoindex/pkg/async
// and never blocks the caller. Composite operations such as EnsureIndex are chains of
// futures.
//
// # Usage
//
//	client, err := opensearch.Connect(ctx, opensearch.Config{
//	    Addresses:       []string{"http://node1:9200", "http://node2:9200"},
//	    Index:           "georocket",
//	    RefreshInterval: time.Minute,
//	})
//	if err != nil {
//	    // use errors.Is(err, opensearch.ErrConnectionFailed)
//	}
//	defer client.Close()
//
//	if _, err := client.EnsureIndex(ctx).Await(); err != nil {
//	    return err
//	}
//
//	page, err := client.BeginScroll(ctx, "object", opensearch.SearchRequest{
//	    Query:  query,
//	    Params: opensearch.Document{"size": 100},
//	}, "1m").Await()
//
// # Error Handling
//
// Failures are typed so callers can react to them:
//
//   - *TransportError: no endpoint could be reached within the attempt budget.
//   - *HTTPError: the cluster answered with a non-2xx status; the body is kept verbatim.
//     IsNotFound and StatusCode help with status checks.
//   - *ProtocolError: the answer parsed but lacked an expected field, e.g. "count".
//
// Sentinel errors (ErrClosed, ErrEmptyEndpointSet, ErrNotAcknowledged, ...) are compared
// with errors.Is. IndexExists/TypeExists map 404 to false and IsRunning maps every
// failure to false; nothing else is hidden.
package opensearch
