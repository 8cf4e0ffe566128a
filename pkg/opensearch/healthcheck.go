package opensearch

import (
	"context"
	"errors"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/geoindex/pkg/async"
)

// IsRunning probes the cluster with a single HEAD / attempt. Every kind of
// failure yields false, so it is always safe to poll.
func (c *Client) IsRunning(ctx context.Context) *async.Future[bool] {
	ping := async.Map(c.transport.PerformRequestNoRetry(ctx, opensearchapi.PingRequest{}), func(*Response) (bool, error) {
		return true, nil
	})
	return async.Recover(ping, func(error) (bool, error) {
		return false, nil
	})
}

// Healthcheck returns a function suitable for liveness/readiness probes.
// Unlike IsRunning it keeps the cause, joined with ErrHealthcheckFailed.
func Healthcheck(client *Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := client.transport.PerformRequestNoRetry(ctx, opensearchapi.PingRequest{}).AwaitContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
