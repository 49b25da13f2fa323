package unleash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelys/aelys/internal/cache"
)

const testWallet = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", nil, zerolog.Nop()), srv
}

func TestClientSendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.GetWalletDefiBalance(context.Background(), testWallet, "ethereum")
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
}

func TestClientQueryParams(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.GetMarketAnalytics(context.Background(), "polygon", "7d")
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "blockchain=polygon")
	assert.Contains(t, gotQuery, "time_range=7d")
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusBadRequest, KindBadRequest},
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusInternalServerError, KindServerError},
	}

	for _, tt := range tests {
		status := tt.status
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.GetMarketAnalytics(context.Background(), "ethereum", "24h")
		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, tt.kind, apiErr.Kind, "status %d", tt.status)
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL, "k", nil, zerolog.Nop())

	_, err := client.GetMarketAnalytics(context.Background(), "ethereum", "24h")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetworkError, apiErr.Kind)
}

func TestChainValidationBeforeNetwork(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.GetMarketAnalytics(context.Background(), "dogechain", "24h")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "Please specify a valid blockchain from:")
	assert.Zero(t, calls, "validation must reject before any network call")
}

func TestWalletMetricsChainValidation(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"data":[]}`))
	})

	// Solana is in the general whitelist but not the wallet-metrics one.
	_, err := client.GetWalletMetrics(context.Background(), testWallet, "solana", "all")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "Unsupported blockchain: solana")
	assert.Contains(t, err.Error(), "ethereum, polygon, linea, avalanche")
	assert.Zero(t, calls)

	_, err = client.GetWalletMetrics(context.Background(), testWallet, "polygon", "all")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestClientReadThroughCache(t *testing.T) {
	calls := 0
	mem, err := cache.NewMemoryCache(1<<20, time.Minute)
	require.NoError(t, err)
	defer mem.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"data":[{"volume":1}]}`))
	}))
	defer srv.Close()
	client := NewClient(srv.URL, "k", mem, zerolog.Nop())

	first, err := client.GetMarketAnalytics(context.Background(), "ethereum", "24h")
	require.NoError(t, err)
	second, err := client.GetMarketAnalytics(context.Background(), "ethereum", "24h")
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, calls, "second read must come from cache")

	// Different params miss the cache.
	_, err = client.GetMarketAnalytics(context.Background(), "ethereum", "7d")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestClientErrorsAreNotCached(t *testing.T) {
	calls := 0
	mem, err := cache.NewMemoryCache(1<<20, time.Minute)
	require.NoError(t, err)
	defer mem.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	client := NewClient(srv.URL, "k", mem, zerolog.Nop())

	_, err = client.GetMarketAnalytics(context.Background(), "ethereum", "24h")
	require.Error(t, err)
	_, err = client.GetMarketAnalytics(context.Background(), "ethereum", "24h")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestMarketLevelWashtradeOmitsWalletParam(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.GetNftWalletWashtrade(context.Background(), "", "ethereum", "24h", "washtrade_volume")
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "wallet=")

	_, err = client.GetNftWalletWashtrade(context.Background(), testWallet, "ethereum", "24h", "washtrade_volume")
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "wallet=")
}

func TestNFTWashtradeParams(t *testing.T) {
	var gotPath string
	var gotParams url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotParams = r.URL.Query()
		w.Write([]byte(`{"data":[]}`))
	})

	contract := "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	_, err := client.GetNFTWashtrade(context.Background(), []string{contract}, []string{"123", "456"}, "ethereum", "", "")
	require.NoError(t, err)

	assert.Equal(t, "/nft/washtrade", gotPath)
	assert.Equal(t, []string{contract}, gotParams["contract_address"])
	assert.Equal(t, []string{"123", "456"}, gotParams["token_id"])
	assert.Equal(t, "washtrade_volume", gotParams.Get("sort_by"))
	assert.Equal(t, "24h", gotParams.Get("time_range"))

	_, err = client.GetNFTWashtrade(context.Background(), []string{contract}, nil, "dogechain", "24h", "")
	require.Error(t, err, "unsupported chains are rejected before the network call")
}
