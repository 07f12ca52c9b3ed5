package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko-based implementation (no API key required for basic endpoints)
type CoinGeckoPriceProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewCoinGeckoPriceProvider(baseURL string) PriceProvider {
	if baseURL == "" {
		baseURL = defaultCoinGeckoBaseURL
	}
	return &CoinGeckoPriceProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *CoinGeckoPriceProvider) Name() string { return "coingecko" }

func (p *CoinGeckoPriceProvider) GetLatest(ctx context.Context, symbol string, currency string) (decimal.Decimal, error) {
	id := mapSymbolToCoinGeckoID(symbol)
	if id == "" {
		return decimal.Zero, fmt.Errorf("unsupported symbol: %s", symbol)
	}
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", p.baseURL, id, strings.ToLower(currency))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("coingecko status %d", resp.StatusCode)
	}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, err
	}
	m, ok := payload[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("id not found in response")
	}
	v, ok := m[strings.ToLower(currency)]
	if !ok {
		return decimal.Zero, fmt.Errorf("currency not found in response")
	}
	return decimal.NewFromFloat(v), nil
}

func mapSymbolToCoinGeckoID(symbol string) string {
	switch strings.ToUpper(symbol) {
	// Major Cryptocurrencies
	case "BTC":
		return "bitcoin"
	case "ETH":
		return "ethereum"

	// Stablecoins
	case "USDT":
		return "tether"
	case "USDC":
		return "usd-coin"
	case "DAI":
		return "dai"

	// Commodity-backed Tokens
	case "PAXG":
		return "pax-gold"

	// Layer 1 Blockchains
	case "SOL":
		return "solana"
	case "ADA":
		return "cardano"
	case "AVAX":
		return "avalanche-2"
	case "DOT":
		return "polkadot"
	case "ATOM":
		return "cosmos"
	case "NEAR":
		return "near"
	case "ALGO":
		return "algorand"

	// DeFi & Exchange Tokens
	case "BNB":
		return "binancecoin"
	case "UNI":
		return "uniswap"
	case "LINK":
		return "chainlink"
	case "AAVE":
		return "aave"

	// Other Popular Tokens
	case "XRP":
		return "ripple"
	case "LTC":
		return "litecoin"
	case "DOGE":
		return "dogecoin"
	case "ARB":
		return "arbitrum"
	case "OP":
		return "optimism"

	default:
		return ""
	}
}
