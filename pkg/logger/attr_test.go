package logger_test

import (
	"errors"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/geoindex/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestRequestID(t *testing.T) {
	attr := logger.RequestID("abc")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

func TestEndpoint(t *testing.T) {
	u, err := url.Parse("http://node1:9200")
	require.NoError(t, err)

	attr := logger.Endpoint(u)
	require.Equal(t, "endpoint", attr.Key)
	assert.Equal(t, "http://node1:9200", attr.Value.String())

	list := logger.Endpoints([]*url.URL{u, u})
	require.Equal(t, "endpoints", list.Key)
	assert.Equal(t, []string{"http://node1:9200", "http://node1:9200"}, list.Value.Any())
}

func TestRequestAttrs(t *testing.T) {
	assert.Equal(t, "GET", logger.Method("GET").Value.String())
	assert.Equal(t, "/_nodes/http", logger.Path("/_nodes/http").Value.String())
	assert.Equal(t, int64(404), logger.StatusCode(404).Value.Int64())
	assert.Equal(t, "geo", logger.Index("geo").Value.String())
	assert.Equal(t, int64(2), logger.RetryCount(2).Value.Int64())
	assert.Equal(t, 150*time.Millisecond, logger.Duration(150*time.Millisecond).Value.Duration())
}
