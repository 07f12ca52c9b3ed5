package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// JSONQuoteProvider fetches quotes from any JSON endpoint. The URL template
// may contain {symbol}, {currency}, {currency_lower} and ${ENV_VAR}
// placeholders; the price is read with a JSONPath expression.
type JSONQuoteProvider struct {
	name         string
	urlTemplate  string
	responsePath string
	httpClient   *http.Client
}

// NewJSONQuoteProvider creates a provider for the given endpoint.
func NewJSONQuoteProvider(name, urlTemplate, responsePath string) *JSONQuoteProvider {
	if responsePath == "" {
		responsePath = "$.price"
	}
	return &JSONQuoteProvider{
		name:         name,
		urlTemplate:  urlTemplate,
		responsePath: responsePath,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *JSONQuoteProvider) Name() string { return p.name }

func (p *JSONQuoteProvider) GetLatest(ctx context.Context, symbol string, currency string) (decimal.Decimal, error) {
	if p.urlTemplate == "" {
		return decimal.Zero, fmt.Errorf("no endpoint configured for %s", p.name)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.buildURL(symbol, currency), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var responseData interface{}
	if err := json.NewDecoder(resp.Body).Decode(&responseData); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	price, err := extractPrice(responseData, p.responsePath)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to extract price: %w", err)
	}
	return price, nil
}

// buildURL replaces placeholders in the URL template
func (p *JSONQuoteProvider) buildURL(symbol, currency string) string {
	replacer := strings.NewReplacer(
		"{symbol}", url.PathEscape(symbol),
		"{currency}", currency,
		"{currency_lower}", strings.ToLower(currency),
		"{currency_upper}", strings.ToUpper(currency),
	)
	return expandEnvVars(replacer.Replace(p.urlTemplate))
}

// expandEnvVars expands ${VAR_NAME} patterns with environment variables
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}

// extractPrice evaluates a JSONPath expression against a decoded document.
func extractPrice(data interface{}, path string) (decimal.Decimal, error) {
	val, err := jsonpath.Get(path, data)
	if err != nil {
		return decimal.Zero, err
	}
	// Wildcard and slice expressions return a list; use its first element.
	if list, ok := val.([]interface{}); ok {
		if len(list) == 0 {
			return decimal.Zero, fmt.Errorf("path %q matched nothing", path)
		}
		val = list[0]
	}

	switch v := val.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("price value is not a number: %T", val)
	}
}
