package opensearch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/geoindex/pkg/logger"
	"github.com/dmitrymomot/geoindex/pkg/opensearch"
)

func TestClient_IsRunning(t *testing.T) {
	t.Parallel()

	t.Run("healthy node", func(t *testing.T) {
		t.Parallel()
		node := newFakeNode(t, jsonResponse(http.StatusOK, ``))
		client := newTestClient(t, opensearch.Config{Addresses: []string{node.URL}})

		ok, err := client.IsRunning(context.Background()).Await()
		require.NoError(t, err)
		assert.True(t, ok)

		req := node.lastRequest(t)
		assert.Equal(t, http.MethodHead, req.Method)
		assert.Equal(t, "/", req.Path)
	})

	t.Run("error status", func(t *testing.T) {
		t.Parallel()
		node := newFakeNode(t, jsonResponse(http.StatusServiceUnavailable, ``))
		client := newTestClient(t, opensearch.Config{Addresses: []string{node.URL}})

		ok, err := client.IsRunning(context.Background()).Await()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unreachable node is tried once", func(t *testing.T) {
		t.Parallel()
		node := newFakeNode(t, nil)
		client := newTestClient(t, opensearch.Config{
			Addresses:   []string{deadAddress(t), node.URL},
			MaxAttempts: 5,
		})

		ok, err := client.IsRunning(context.Background()).Await()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, node.Count())
	})

	t.Run("closed client", func(t *testing.T) {
		t.Parallel()
		node := newFakeNode(t, nil)
		client := newTestClient(t, opensearch.Config{Addresses: []string{node.URL}})
		require.NoError(t, client.Close())

		ok, err := client.IsRunning(context.Background()).Await()
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	node := newFakeNode(t, nil)
	client := newTestClient(t, opensearch.Config{Addresses: []string{node.URL}})
	assert.NoError(t, opensearch.Healthcheck(client)(context.Background()))

	down := newTestClient(t, opensearch.Config{Addresses: []string{deadAddress(t)}})
	err := opensearch.Healthcheck(down)(context.Background())
	assert.ErrorIs(t, err, opensearch.ErrHealthcheckFailed)

	var transportErr *opensearch.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		node := newFakeNode(t, nil)

		client, err := opensearch.Connect(context.Background(), opensearch.Config{
			Addresses: []string{node.URL},
			Index:     "geo",
		}, opensearch.WithLogger(logger.Nop()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.Equal(t, "geo", client.Index())
		assert.Equal(t, 1, node.Count())
	})

	t.Run("unreachable cluster", func(t *testing.T) {
		t.Parallel()

		client, err := opensearch.Connect(context.Background(), opensearch.Config{
			Addresses: []string{deadAddress(t)},
			Index:     "geo",
		}, opensearch.WithLogger(logger.Nop()))
		assert.Nil(t, client)
		assert.ErrorIs(t, err, opensearch.ErrConnectionFailed)
		assert.ErrorIs(t, err, opensearch.ErrHealthcheckFailed)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		_, err := opensearch.Connect(context.Background(), opensearch.Config{
			Addresses: []string{"ftp://node:21"},
			Index:     "geo",
		}, opensearch.WithLogger(logger.Nop()))
		assert.ErrorIs(t, err, opensearch.ErrConnectionFailed)
		assert.ErrorIs(t, err, opensearch.ErrInvalidEndpoint)
	})
}
