package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a recurring contribution.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// RecurringContribution describes money added to a holding on a schedule.
type RecurringContribution struct {
	Enabled   bool            `json:"enabled"`
	Frequency Frequency       `json:"frequency"`
	StartDate time.Time       `json:"start_date"`
	Amount    decimal.Decimal `json:"amount"`
	AutoApply bool            `json:"auto_apply"`

	// DayOfMonth anchors monthly schedules. Days past the end of a month fire
	// on its last day.
	DayOfMonth int `json:"day_of_month,omitempty"`

	// Weekday anchors weekly and biweekly schedules.
	Weekday time.Weekday `json:"weekday"`

	LastAppliedOccurrence   string `json:"last_applied_occurrence,omitempty"`
	LastValidatedOccurrence string `json:"last_validated_occurrence,omitempty"`
}

// Validate validates the schedule definition
func (r *RecurringContribution) Validate() error {
	switch r.Frequency {
	case FrequencyMonthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return errors.New("day_of_month must be between 1 and 31")
		}
	case FrequencyWeekly, FrequencyBiweekly:
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			return errors.New("weekday must be between 0 and 6")
		}
	default:
		return errors.New("frequency must be 'weekly', 'biweekly' or 'monthly'")
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if r.StartDate.IsZero() {
		return errors.New("start_date is required")
	}
	return nil
}

// OccurrenceState is the lifecycle position of one scheduled firing.
type OccurrenceState string

const (
	OccurrencePending OccurrenceState = "pending"
	OccurrenceDue     OccurrenceState = "due"
	OccurrenceApplied OccurrenceState = "applied"
)

// Occurrence is a single firing of a recurring contribution.
type Occurrence struct {
	ID     string          `json:"id"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	State  OccurrenceState `json:"state"`
}
