package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a single tracked position in the portfolio.
//
// For listed holdings Quantity, AverageCost and PurchaseDate are a cached
// projection of Transactions and are recomputed on every mutation.
type Holding struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Ticker   string   `json:"ticker,omitempty"`
	Category Category `json:"category"`
	Currency string   `json:"currency"`

	Quantity     decimal.Decimal `json:"quantity"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	PurchaseDate time.Time       `json:"purchase_date"`

	Platform string `json:"platform,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Country  string `json:"country,omitempty"`
	Account  string `json:"account,omitempty"`

	IsManual     bool         `json:"is_manual"`
	ValueHistory []ValuePoint `json:"value_history,omitempty"`

	Transactions []Transaction `json:"transactions,omitempty"`

	// AppliedOccurrences maps a recurring occurrence id to the transaction id
	// it produced (empty for balance and non-ledger holdings).
	AppliedOccurrences map[string]string `json:"applied_occurrences,omitempty"`

	Recurring *RecurringContribution `json:"recurring,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValuePoint is a manually recorded valuation.
type ValuePoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// IdentityKey is the consolidation key of a holding: ticker, category and
// currency. It is empty for holdings that never consolidate.
func (h *Holding) IdentityKey() string {
	return identityKey(h.Ticker, h.Category, h.Currency)
}

func identityKey(ticker string, category Category, currency string) string {
	t := NormalizeTicker(ticker)
	if !category.IsListed() || t == "" {
		return ""
	}
	return t + "|" + string(category) + "|" + NormalizeCurrency(currency)
}

// HasOccurrence reports whether the occurrence has already been applied,
// either through the index or through a ledger entry carrying its derived id.
func (h *Holding) HasOccurrence(occurrenceID string) bool {
	if occurrenceID == "" {
		return false
	}
	if _, ok := h.AppliedOccurrences[occurrenceID]; ok {
		return true
	}
	txID := OccurrenceTransactionID(h.ID, occurrenceID)
	for _, tx := range h.Transactions {
		if tx.ID == txID {
			return true
		}
	}
	return false
}

// RecordOccurrence stores the occurrence in the idempotency index.
func (h *Holding) RecordOccurrence(occurrenceID, transactionID string) {
	if occurrenceID == "" {
		return
	}
	if h.AppliedOccurrences == nil {
		h.AppliedOccurrences = make(map[string]string)
	}
	h.AppliedOccurrences[occurrenceID] = transactionID
}

// AdvanceSchedule moves the schedule bookkeeping forward to a scheduled
// occurrence. Older occurrences never move it back.
func (h *Holding) AdvanceSchedule(occurrenceID string) {
	if h.Recurring == nil || occurrenceID == "" {
		return
	}
	if occurrenceID > h.Recurring.LastAppliedOccurrence {
		h.Recurring.LastAppliedOccurrence = occurrenceID
	}
	if occurrenceID > h.Recurring.LastValidatedOccurrence {
		h.Recurring.LastValidatedOccurrence = occurrenceID
	}
}

// Clone returns a deep copy of the holding.
func (h *Holding) Clone() *Holding {
	if h == nil {
		return nil
	}
	c := *h
	if h.ValueHistory != nil {
		c.ValueHistory = append([]ValuePoint(nil), h.ValueHistory...)
	}
	if h.Transactions != nil {
		c.Transactions = append([]Transaction(nil), h.Transactions...)
	}
	if h.AppliedOccurrences != nil {
		c.AppliedOccurrences = make(map[string]string, len(h.AppliedOccurrences))
		for k, v := range h.AppliedOccurrences {
			c.AppliedOccurrences[k] = v
		}
	}
	if h.Recurring != nil {
		r := *h.Recurring
		c.Recurring = &r
	}
	return &c
}
