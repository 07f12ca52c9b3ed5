package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution failure reasons reported in ContributionResult.Reason.
const (
	ReasonMissingPrice    = "Missing price"
	ReasonInvalidAmount   = "Invalid amount"
	ReasonAssetNotFound   = "Asset not found"
	ReasonInvalidQuantity = "Invalid computed quantity"
)

// ContributionRequest applies money to an existing holding.
type ContributionRequest struct {
	HoldingID         string           `json:"holding_id"`
	Amount            decimal.Decimal  `json:"amount"`
	Date              time.Time        `json:"date"`
	OccurrenceID      string           `json:"occurrence_id,omitempty"`
	UnitPriceOverride *decimal.Decimal `json:"unit_price_override,omitempty"`
}

// ContributionResult reports the outcome of a contribution. WasApplied is
// false on failure and when the occurrence had already been applied.
type ContributionResult struct {
	OK            bool     `json:"ok"`
	WasApplied    bool     `json:"was_applied"`
	Reason        string   `json:"reason,omitempty"`
	TransactionID string   `json:"transaction_id,omitempty"`
	Holding       *Holding `json:"holding,omitempty"`
}

// ContributionFailed builds a failed result.
func ContributionFailed(reason string) ContributionResult {
	return ContributionResult{OK: false, WasApplied: false, Reason: reason}
}
