package opensearch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/geoindex/pkg/opensearch"
)

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    opensearch.Endpoint
		wantErr bool
	}{
		{
			name: "http with port",
			raw:  "http://localhost:9200",
			want: opensearch.Endpoint{Scheme: "http", Host: "localhost", Port: 9200},
		},
		{
			name: "https default port",
			raw:  "https://search.example.com",
			want: opensearch.Endpoint{Scheme: "https", Host: "search.example.com", Port: 443},
		},
		{
			name: "ipv6",
			raw:  "http://[::1]:9201",
			want: opensearch.Endpoint{Scheme: "http", Host: "::1", Port: 9201},
		},
		{name: "unsupported scheme", raw: "ftp://host:21", wantErr: true},
		{name: "missing host", raw: "http://", wantErr: true},
		{name: "bad port", raw: "http://host:99999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := opensearch.ParseEndpoint(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, opensearch.ErrInvalidEndpoint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpointString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://10.0.0.1:9200", opensearch.Endpoint{Scheme: "http", Host: "10.0.0.1", Port: 9200}.String())
	assert.Equal(t, "http://[::1]:9200", opensearch.Endpoint{Scheme: "http", Host: "::1", Port: 9200}.String())
}

func TestEndpointSet(t *testing.T) {
	t.Parallel()

	a := opensearch.Endpoint{Scheme: "http", Host: "a", Port: 9200}
	b := opensearch.Endpoint{Scheme: "http", Host: "b", Port: 9200}
	c := opensearch.Endpoint{Scheme: "http", Host: "c", Port: 9200}

	t.Run("is a copy of its input", func(t *testing.T) {
		t.Parallel()
		input := []opensearch.Endpoint{a, b}
		set := opensearch.NewEndpointSet(input...)
		input[0] = c

		assert.Equal(t, a, set.At(0))

		all := set.All()
		all[1] = c
		assert.Equal(t, b, set.At(1))
	})

	t.Run("equality ignores order", func(t *testing.T) {
		t.Parallel()
		assert.True(t, opensearch.NewEndpointSet(a, b).Equal(opensearch.NewEndpointSet(b, a)))
		assert.False(t, opensearch.NewEndpointSet(a, b).Equal(opensearch.NewEndpointSet(a, c)))
		assert.False(t, opensearch.NewEndpointSet(a, a).Equal(opensearch.NewEndpointSet(a, b)))
		assert.False(t, opensearch.NewEndpointSet(a).Equal(opensearch.NewEndpointSet(a, b)))
		assert.True(t, opensearch.NewEndpointSet().Equal(opensearch.EndpointSet{}))
	})

	t.Run("contains and string", func(t *testing.T) {
		t.Parallel()
		set := opensearch.NewEndpointSet(a, b)
		assert.True(t, set.Contains(b))
		assert.False(t, set.Contains(c))
		assert.Equal(t, "[http://a:9200, http://b:9200]", set.String())
	})
}

func TestParseEndpointSet(t *testing.T) {
	t.Parallel()

	set, err := opensearch.ParseEndpointSet([]string{"http://a:9200", "http://b:9201"})
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 9201, set.At(1).Port)

	_, err = opensearch.ParseEndpointSet([]string{"http://a:9200", "nope"})
	assert.ErrorIs(t, err, opensearch.ErrInvalidEndpoint)
}
