package services

import (
	"sync"

	"github.com/tropicaldog17/folio/internal/models"
)

// quoteCache keeps the last fetched quote per symbol and currency.
type quoteCache struct {
	mu     sync.RWMutex
	quotes map[string]models.PriceQuote
}

func newQuoteCache() *quoteCache {
	return &quoteCache{quotes: make(map[string]models.PriceQuote)}
}

func quoteKey(symbol, currency string) string {
	return symbol + "|" + currency
}

func (c *quoteCache) get(symbol, currency string) (models.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[quoteKey(symbol, currency)]
	return q, ok
}

func (c *quoteCache) put(q models.PriceQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[quoteKey(q.Symbol, q.Currency)] = q
}
