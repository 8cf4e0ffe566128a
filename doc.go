// Package geoindex is the index backend layer of a geospatial document store.
//
// The module talks to a cluster of OpenSearch/Elasticsearch compatible nodes over
// their REST API. Its packages are:
//
//   - pkg/opensearch: load-balancing transport, topology discovery and the index client
//     (bulk writes, scroll search, counting, index and mapping lifecycle).
//   - pkg/async: generic futures with Then, Map and Recover combinators.
//   - pkg/scheduler: cancellable periodic tasks, used for topology refresh.
//   - pkg/logger: slog factory and typed attributes.
//   - pkg/config: environment based configuration loading.
//
// A typical setup loads opensearch.Config from the environment and connects:
//
//	cfg := config.MustLoad[opensearch.Config]()
//	client, err := opensearch.Connect(ctx, cfg, opensearch.WithLogger(logger.New()))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package geoindex
