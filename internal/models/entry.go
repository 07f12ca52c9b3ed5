package models

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	apperrors "github.com/tropicaldog17/folio/internal/errors"
)

// HoldingEntry is a request to add a position to the portfolio.
type HoldingEntry struct {
	Name          string           `json:"name"`
	Ticker        string           `json:"ticker,omitempty"`
	Category      Category         `json:"category"`
	Quantity      decimal.Decimal  `json:"quantity"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	CurrentPrice  *decimal.Decimal `json:"current_price,omitempty"`
	Fees          decimal.Decimal  `json:"fees"`
	PurchaseDate  time.Time        `json:"purchase_date"`
	Currency      string           `json:"currency"`

	Platform string `json:"platform,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Country  string `json:"country,omitempty"`
	Account  string `json:"account,omitempty"`

	IsManual     bool         `json:"is_manual"`
	ValueHistory []ValuePoint `json:"value_history,omitempty"`
}

// Validate rejects entries the resolver cannot consolidate.
func (e *HoldingEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" && NormalizeTicker(e.Ticker) == "" {
		return &apperrors.ErrValidation{Field: "name", Message: "name or ticker is required"}
	}
	if !e.Category.Valid() {
		return &apperrors.ErrValidation{Field: "category", Message: "unknown category " + string(e.Category)}
	}
	if money.GetCurrency(NormalizeCurrency(e.Currency)) == nil {
		return &apperrors.ErrValidation{Field: "currency", Message: "unknown currency " + e.Currency}
	}
	if !e.Quantity.IsPositive() {
		return &apperrors.ErrValidation{Field: "quantity", Message: "must be positive"}
	}
	if e.PurchasePrice.IsNegative() {
		return &apperrors.ErrValidation{Field: "purchase_price", Message: "must be non-negative"}
	}
	if e.CurrentPrice != nil && e.CurrentPrice.IsNegative() {
		return &apperrors.ErrValidation{Field: "current_price", Message: "must be non-negative"}
	}
	if e.Fees.IsNegative() {
		return &apperrors.ErrValidation{Field: "fees", Message: "must be non-negative"}
	}
	return nil
}

// IsListed reports whether the entry takes part in ticker consolidation.
func (e *HoldingEntry) IsListed() bool {
	return e.Category.IsListed() && NormalizeTicker(e.Ticker) != ""
}

// IdentityKey mirrors Holding.IdentityKey for an entry.
func (e *HoldingEntry) IdentityKey() string {
	return identityKey(e.Ticker, e.Category, e.Currency)
}

// QuotedPrice is the freshest price known for the entry: the supplied current
// price when positive, else the purchase price.
func (e *HoldingEntry) QuotedPrice() decimal.Decimal {
	if e.CurrentPrice != nil && e.CurrentPrice.IsPositive() {
		return *e.CurrentPrice
	}
	return e.PurchasePrice
}
