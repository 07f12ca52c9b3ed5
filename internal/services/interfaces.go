package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tropicaldog17/folio/internal/models"
)

// HoldingService defines the interface for adding and maintaining holdings
type HoldingService interface {
	AddHolding(ctx context.Context, entry *models.HoldingEntry) (*models.Holding, error)
	GetHolding(ctx context.Context, id string) (*models.Holding, error)
	ListHoldings(ctx context.Context) ([]*models.Holding, error)
	DeleteHolding(ctx context.Context, id string) error
	RecordValuation(ctx context.Context, id string, point models.ValuePoint) (*models.Holding, error)
	UpdateQuote(ctx context.Context, id string, quote *models.PriceQuote) (*models.Holding, error)
	SetRecurringContribution(ctx context.Context, id string, schedule *models.RecurringContribution) (*models.Holding, error)
}

// ContributionService defines the interface for applying contributions
type ContributionService interface {
	ApplyContribution(ctx context.Context, req models.ContributionRequest) models.ContributionResult
	ConfirmOccurrence(ctx context.Context, holdingID, occurrenceID string) (models.ContributionResult, error)
	DismissOccurrence(ctx context.Context, holdingID, occurrenceID string) error
}

// ScheduleService defines the interface for recurring contribution calendars
type ScheduleService interface {
	Occurrences(schedule *models.RecurringContribution, from, to time.Time) []models.Occurrence
	State(h *models.Holding, occ models.Occurrence, now time.Time) models.OccurrenceState
	HoldingOccurrences(h *models.Holding, from, to, now time.Time) []models.Occurrence
	DueOccurrences(h *models.Holding, now time.Time) []models.Occurrence
	Find(h *models.Holding, occurrenceID string, now time.Time) (models.Occurrence, bool)
}

// MarketDataService defines the interface for holding price quotes
type MarketDataService interface {
	GetQuote(ctx context.Context, h *models.Holding) (*models.PriceQuote, error)
}

// PriceProvider fetches the latest price of a symbol
type PriceProvider interface {
	Name() string
	GetLatest(ctx context.Context, symbol string, currency string) (decimal.Decimal, error)
}
