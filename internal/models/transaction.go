package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies a ledger entry kind. Only buys feed the position
// aggregate today.
type TransactionType string

const (
	TransactionTypeBuy TransactionType = "buy"
)

// Transaction is a single immutable acquisition record in a holding's ledger.
type Transaction struct {
	ID       string          `json:"id"`
	Type     TransactionType `json:"type"`
	Date     time.Time       `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Fees     decimal.Decimal `json:"fees"`

	// OccurrenceID is set when the transaction was produced by a recurring
	// contribution occurrence.
	OccurrenceID string `json:"occurrence_id,omitempty"`
}

// Validate validates the transaction data
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.Type == "" {
		return errors.New("type is required")
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}
	if !t.Quantity.IsPositive() {
		return errors.New("quantity must be positive")
	}
	if t.Price.IsNegative() {
		return errors.New("price must be non-negative")
	}
	if t.Fees.IsNegative() {
		return errors.New("fees must be non-negative")
	}
	return nil
}

// Cost returns quantity * price + fees.
func (t Transaction) Cost() decimal.Decimal {
	return t.Quantity.Mul(t.Price).Add(t.Fees)
}

// IsBuy reports whether the entry is an acquisition.
func (t Transaction) IsBuy() bool {
	return t.Type == TransactionTypeBuy
}
