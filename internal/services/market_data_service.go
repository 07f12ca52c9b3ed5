package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tropicaldog17/folio/internal/logger"
	"github.com/tropicaldog17/folio/internal/models"
)

const (
	defaultQuoteTTL   = 15 * time.Minute
	quoteFetchTimeout = 20 * time.Second
)

type marketDataService struct {
	providers map[models.Category]PriceProvider
	cache     *quoteCache
	group     singleflight.Group
	ttl       time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// NewMarketDataService routes quote lookups to a provider per listed
// category. Categories without a provider are quoted manually.
func NewMarketDataService(providers map[models.Category]PriceProvider, ttl time.Duration, log *zap.Logger) MarketDataService {
	if ttl <= 0 {
		ttl = defaultQuoteTTL
	}
	routed := make(map[models.Category]PriceProvider, len(providers))
	for cat, p := range providers {
		if p != nil {
			routed[cat] = p
		}
	}
	return &marketDataService{
		providers: routed,
		cache:     newQuoteCache(),
		ttl:       ttl,
		log:       logger.OrNop(log).Named("market"),
		now:       time.Now,
	}
}

// GetQuote returns the price of a holding in its own currency. Listed
// holdings go through the cache and their provider; a failed fetch falls back
// to the last known quote, marked stale. Everything else gets a manual quote
// built from the holding's current price.
func (s *marketDataService) GetQuote(ctx context.Context, h *models.Holding) (*models.PriceQuote, error) {
	if h == nil {
		return nil, fmt.Errorf("holding is required")
	}
	provider, ok := s.providers[h.Category]
	if !ok || !h.Category.IsListed() || h.Ticker == "" {
		return s.manualQuote(h)
	}

	symbol, currency := h.Ticker, h.Currency
	now := s.now()
	if cached, ok := s.cache.get(symbol, currency); ok && now.Sub(cached.FetchedAt) < s.ttl {
		q := cached
		return &q, nil
	}

	// The shared fetch outlives any single caller's context.
	ch := s.group.DoChan(quoteKey(symbol, currency), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), quoteFetchTimeout)
		defer cancel()
		price, err := provider.GetLatest(fetchCtx, symbol, currency)
		if err != nil {
			return nil, err
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("%s returned non-positive price for %s", provider.Name(), symbol)
		}
		q := models.PriceQuote{
			Symbol:    symbol,
			Currency:  currency,
			Price:     price,
			Status:    models.QuoteFresh,
			Provider:  provider.Name(),
			FetchedAt: s.now().UTC().Truncate(time.Second),
		}
		s.cache.put(q)
		return q, nil
	})

	var v interface{}
	var err error
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err != nil {
		if cached, ok := s.cache.get(symbol, currency); ok {
			s.log.Warn("quote fetch failed, serving stale quote",
				zap.String("symbol", symbol),
				zap.String("provider", provider.Name()),
				zap.Error(err))
			cached.Status = models.QuoteStale
			return &cached, nil
		}
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	q := v.(models.PriceQuote)
	return &q, nil
}

func (s *marketDataService) manualQuote(h *models.Holding) (*models.PriceQuote, error) {
	if !h.CurrentPrice.IsPositive() {
		return nil, fmt.Errorf("no price available for holding %s", h.ID)
	}
	return &models.PriceQuote{
		Symbol:    h.Ticker,
		Currency:  h.Currency,
		Price:     h.CurrentPrice,
		Status:    models.QuoteManual,
		Provider:  "manual",
		FetchedAt: h.UpdatedAt,
	}, nil
}
