package opensearch

import (
	"context"
	"errors"
)

// Connect creates a client and verifies that the cluster answers.
// It returns an error if the client cannot be created or the probe fails.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	if err := Healthcheck(client)(ctx); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return client, nil
}
