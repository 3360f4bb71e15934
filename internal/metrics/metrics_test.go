package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricProvider_Prometheus(t *testing.T) {
	ctx := context.Background()

	mp, err := NewMetricProvider(ctx,
		WithServiceName("pool-quoter-test"),
		WithProviderConfig(NewPrometheusConfig()),
	)
	require.NoError(t, err)
	defer mp.Shutdown(ctx)

	counter, err := mp.Meter("test").Int64Counter("pool_quoter_test_quotes")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pool_quoter_test_quotes")
}

func TestNewMetricProvider_UnknownProvider(t *testing.T) {
	_, err := NewMetricProvider(context.Background(), WithProviderConfig(ProviderCfg{Provider: "statsd"}))
	assert.Error(t, err)
}

func TestNewMetricProvider_NoReaders(t *testing.T) {
	mp, err := NewMetricProvider(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mp.Shutdown(context.Background()))
}
