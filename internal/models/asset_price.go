package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus tells how current a price quote is.
type QuoteStatus string

const (
	QuoteFresh  QuoteStatus = "fresh"
	QuoteStale  QuoteStatus = "stale"
	QuoteManual QuoteStatus = "manual"
)

// PriceQuote is a market price for a holding's ticker in its currency.
type PriceQuote struct {
	Symbol    string          `json:"symbol"`
	Currency  string          `json:"currency"`
	Price     decimal.Decimal `json:"price"`
	Status    QuoteStatus     `json:"status"`
	Provider  string          `json:"provider"`
	FetchedAt time.Time       `json:"fetched_at"`
}

func (p *PriceQuote) Validate() error {
	if p.Currency == "" {
		return errors.New("currency is required")
	}
	if p.Price.IsZero() || p.Price.IsNegative() {
		return errors.New("price must be positive")
	}
	if p.Provider == "" {
		return errors.New("provider is required")
	}
	return nil
}

// Usable reports whether the quote can price a contribution. Staleness does
// not matter here.
func (p *PriceQuote) Usable() bool {
	return p != nil && p.Price.IsPositive()
}
