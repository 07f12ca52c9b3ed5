package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoPriceProvider_GetLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"eur":58000.5}}`))
	}))
	defer server.Close()

	p := NewCoinGeckoPriceProvider(server.URL + "/")
	assert.Equal(t, "coingecko", p.Name())

	price, err := p.GetLatest(context.Background(), "btc", "EUR")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("58000.5")))
}

func TestCoinGeckoPriceProvider_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") == "ethereum" {
			w.Write([]byte(`{"ethereum":{}}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewCoinGeckoPriceProvider(server.URL)
	ctx := context.Background()

	_, err := p.GetLatest(ctx, "NOTACOIN", "USD")
	assert.EqualError(t, err, "unsupported symbol: NOTACOIN")

	_, err = p.GetLatest(ctx, "BTC", "USD")
	assert.EqualError(t, err, "coingecko status 429")

	_, err = p.GetLatest(ctx, "ETH", "USD")
	assert.EqualError(t, err, "currency not found in response")
}

func TestJSONQuoteProvider_GetLatest(t *testing.T) {
	t.Setenv("FOLIO_TEST_QUOTE_KEY", "secret")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote/AAPL":
			assert.Equal(t, "usd", r.URL.Query().Get("cur"))
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			w.Write([]byte(`{"data":{"price":189.25}}`))
		case "/quote/VOD.L":
			w.Write([]byte(`{"data":{"price":"72.10"}}`))
		case "/quote/LIST":
			w.Write([]byte(`{"data":{"price":[101.5, 99]}}`))
		case "/quote/BAD":
			w.Write([]byte(`{"data":{"price":true}}`))
		default:
			http.Error(w, "unknown symbol", http.StatusNotFound)
		}
	}))
	defer server.Close()

	p := NewJSONQuoteProvider("equity", server.URL+"/quote/{symbol}?cur={currency_lower}&key=${FOLIO_TEST_QUOTE_KEY}", "$.data.price")
	assert.Equal(t, "equity", p.Name())
	ctx := context.Background()

	price, err := p.GetLatest(ctx, "AAPL", "USD")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("189.25")))

	price, err = p.GetLatest(ctx, "VOD.L", "GBP")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("72.10")))

	_, err = p.GetLatest(ctx, "BAD", "USD")
	assert.Error(t, err)

	_, err = p.GetLatest(ctx, "MISSING", "USD")
	assert.ErrorContains(t, err, "status 404")
}

func TestJSONQuoteProvider_Unconfigured(t *testing.T) {
	p := NewJSONQuoteProvider("equity", "", "")
	_, err := p.GetLatest(context.Background(), "AAPL", "USD")
	assert.Error(t, err)
}

func TestExtractPrice(t *testing.T) {
	doc := map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{"close": 10.5},
			map[string]interface{}{"close": 11.0},
		},
		"empty": []interface{}{},
	}
	price, err := extractPrice(doc, "$.results[*].close")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("10.5")))

	_, err = extractPrice(doc, "$.missing")
	assert.Error(t, err)

	_, err = extractPrice(doc, "$.empty[*]")
	assert.Error(t, err)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FOLIO_TEST_TOKEN", "abc")
	assert.Equal(t, "https://x/?t=abc", expandEnvVars("https://x/?t=${FOLIO_TEST_TOKEN}"))
	assert.Equal(t, "https://x/?t=${FOLIO_UNSET_VAR}", expandEnvVars("https://x/?t=${FOLIO_UNSET_VAR}"))
}
