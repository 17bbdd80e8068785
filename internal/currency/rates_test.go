package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratesServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates": {"USD": 1, "EUR": 0.85, "GBP": 0.75}}`))
	}))
}

func TestRates(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and caches per base", func(t *testing.T) {
		var calls int
		server := ratesServer(t, &calls)
		defer server.Close()

		client := NewRateClient(server.URL)

		rates, err := client.Rates(ctx, "usd")
		require.NoError(t, err)
		assert.True(t, rates["EUR"].Equal(decimal.RequireFromString("0.85")))

		// Second call is served from cache.
		_, err = client.Rates(ctx, "USD")
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("requires a base currency", func(t *testing.T) {
		client := NewRateClient("http://127.0.0.1:1")
		_, err := client.Rates(ctx, "")
		assert.Error(t, err)
	})

	t.Run("empty rate table is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"rates": {}}`))
		}))
		defer server.Close()

		client := NewRateClient(server.URL)
		_, err := client.Rates(ctx, "USD")
		assert.Error(t, err)
	})
}

func TestConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("converts through the rate table", func(t *testing.T) {
		var calls int
		server := ratesServer(t, &calls)
		defer server.Close()

		client := NewRateClient(server.URL)

		converted, err := client.Convert(ctx, decimal.NewFromInt(100), "USD", "EUR")
		require.NoError(t, err)
		assert.True(t, converted.Equal(decimal.RequireFromString("85")), "got %s", converted)
	})

	t.Run("same currency skips the network", func(t *testing.T) {
		client := NewRateClient("http://127.0.0.1:1")

		amount := decimal.RequireFromString("12.34")
		converted, err := client.Convert(ctx, amount, "USD", "usd")
		require.NoError(t, err)
		assert.True(t, converted.Equal(amount))
	})

	t.Run("missing target rate", func(t *testing.T) {
		var calls int
		server := ratesServer(t, &calls)
		defer server.Close()

		client := NewRateClient(server.URL)
		_, err := client.Convert(ctx, decimal.NewFromInt(1), "USD", "XYZ")
		assert.Error(t, err)
	})
}
