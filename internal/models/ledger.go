package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegacyTransactionID is the id of the synthetic buy created for holdings that
// predate ledger tracking. It only depends on the holding id so normalizing
// twice yields the same ledger.
func LegacyTransactionID(holdingID string) string {
	return holdingID + "-legacy"
}

// OccurrenceTransactionID derives the ledger id of the buy recorded for a
// recurring contribution occurrence.
func OccurrenceTransactionID(holdingID, occurrenceID string) string {
	return holdingID + "-occ-" + occurrenceID
}

// NormalizeLedger returns the holding's ledger. Holdings without one get a
// single legacy buy built from their cached quantity, average cost and
// purchase date. A holding with no quantity normalizes to an empty ledger.
func NormalizeLedger(h *Holding) []Transaction {
	if len(h.Transactions) > 0 {
		return h.Transactions
	}
	if !h.Quantity.IsPositive() {
		return nil
	}
	date := h.PurchaseDate
	if date.IsZero() {
		date = h.CreatedAt
	}
	return []Transaction{{
		ID:       LegacyTransactionID(h.ID),
		Type:     TransactionTypeBuy,
		Date:     date,
		Quantity: h.Quantity,
		Price:    h.AverageCost,
		Fees:     decimal.Zero,
	}}
}

// Position is the projection of a ledger onto a holding.
type Position struct {
	Quantity    decimal.Decimal
	TotalCost   decimal.Decimal
	AverageCost decimal.Decimal
	FirstDate   time.Time
}

// AggregatePosition derives quantity, weighted-average cost and first
// acquisition date from the buy entries of a ledger. now is returned as the
// first date of an empty ledger.
func AggregatePosition(txs []Transaction, now time.Time) Position {
	pos := Position{
		Quantity:    decimal.Zero,
		TotalCost:   decimal.Zero,
		AverageCost: decimal.Zero,
	}
	for _, tx := range txs {
		if !tx.IsBuy() {
			continue
		}
		pos.Quantity = pos.Quantity.Add(tx.Quantity)
		pos.TotalCost = pos.TotalCost.Add(tx.Cost())
		if pos.FirstDate.IsZero() || tx.Date.Before(pos.FirstDate) {
			pos.FirstDate = tx.Date
		}
	}
	if pos.Quantity.IsPositive() {
		pos.AverageCost = pos.TotalCost.Div(pos.Quantity)
	}
	if pos.FirstDate.IsZero() {
		pos.FirstDate = now
	}
	return pos
}

// ApplyPosition writes an aggregate back onto the holding's cached fields.
func (h *Holding) ApplyPosition(pos Position) {
	h.Quantity = pos.Quantity
	h.AverageCost = pos.AverageCost
	h.PurchaseDate = pos.FirstDate
}
