package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/folio/internal/errors"
	"github.com/tropicaldog17/folio/internal/logger"
	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/store"
)

type holdingService struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// NewHoldingService creates the holding resolver over the given store
func NewHoldingService(st *store.Store, log *zap.Logger) HoldingService {
	return &holdingService{
		store: st,
		log:   logger.OrNop(log).Named("holdings"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// AddHolding consolidates the entry into an existing holding with the same
// ticker, category and currency, or creates a new holding.
func (s *holdingService) AddHolding(ctx context.Context, entry *models.HoldingEntry) (*models.Holding, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	var result *models.Holding
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		now := s.now()
		if entry.IsListed() {
			key := entry.IdentityKey()
			if existing, ok := tx.Find(func(h *models.Holding) bool { return h.IdentityKey() == key }); ok {
				if err := s.mergeInto(existing, entry, now); err != nil {
					return err
				}
				tx.Touch()
				result = existing
				s.log.Info("entry consolidated",
					zap.String("holding_id", existing.ID),
					zap.String("ticker", existing.Ticker),
					zap.Int("transactions", len(existing.Transactions)))
				return nil
			}
		}

		h, err := s.newHolding(entry, now)
		if err != nil {
			return err
		}
		tx.Insert(h)
		result = h
		s.log.Info("holding created",
			zap.String("holding_id", h.ID),
			zap.String("category", string(h.Category)),
			zap.Bool("listed", entry.IsListed()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add holding: %w", err)
	}
	return result.Clone(), nil
}

func (s *holdingService) mergeInto(h *models.Holding, entry *models.HoldingEntry, now time.Time) error {
	buy, err := s.seedTransaction(entry, now)
	if err != nil {
		return err
	}
	ledger := append([]models.Transaction(nil), models.NormalizeLedger(h)...)
	ledger = append(ledger, buy)
	h.Transactions = ledger
	h.ApplyPosition(models.AggregatePosition(ledger, now))

	mergeMetadata(h, &mergedEntry{HoldingEntry: entry, country: resolveCountry(entry)}, metadataMergePolicies)
	h.UpdatedAt = now
	return nil
}

func (s *holdingService) newHolding(entry *models.HoldingEntry, now time.Time) (*models.Holding, error) {
	h := &models.Holding{
		ID:           s.newID(),
		Name:         strings.TrimSpace(entry.Name),
		Category:     entry.Category,
		Currency:     models.NormalizeCurrency(entry.Currency),
		Quantity:     entry.Quantity,
		AverageCost:  entry.PurchasePrice,
		CurrentPrice: entry.QuotedPrice(),
		PurchaseDate: entryDate(entry, now),
		Platform:     entry.Platform,
		Notes:        entry.Notes,
		Sector:       entry.Sector,
		Country:      resolveCountry(entry),
		Account:      entry.Account,
		IsManual:     entry.IsManual,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if h.Name == "" {
		h.Name = models.NormalizeTicker(entry.Ticker)
	}

	if entry.Category.IsListed() {
		h.Ticker = models.NormalizeTicker(entry.Ticker)
		buy, err := s.seedTransaction(entry, now)
		if err != nil {
			return nil, err
		}
		h.Transactions = []models.Transaction{buy}
		h.ApplyPosition(models.AggregatePosition(h.Transactions, now))
		return h, nil
	}

	if len(entry.ValueHistory) > 0 {
		h.ValueHistory = append([]models.ValuePoint(nil), entry.ValueHistory...)
	} else if entry.IsManual {
		h.ValueHistory = []models.ValuePoint{{Date: h.PurchaseDate, Value: entry.PurchasePrice}}
	}
	return h, nil
}

func (s *holdingService) seedTransaction(entry *models.HoldingEntry, now time.Time) (models.Transaction, error) {
	buy := models.Transaction{
		ID:       s.newID(),
		Type:     models.TransactionTypeBuy,
		Date:     entryDate(entry, now),
		Quantity: entry.Quantity,
		Price:    entry.PurchasePrice,
		Fees:     entry.Fees,
	}
	if err := buy.Validate(); err != nil {
		return models.Transaction{}, &apperrors.ErrValidation{Field: "transaction", Message: err.Error()}
	}
	return buy, nil
}

func entryDate(entry *models.HoldingEntry, now time.Time) time.Time {
	if entry.PurchaseDate.IsZero() {
		return now
	}
	return entry.PurchaseDate
}

func (s *holdingService) GetHolding(ctx context.Context, id string) (*models.Holding, error) {
	h, ok := s.store.Get(id)
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "holding", ID: id}
	}
	return h, nil
}

func (s *holdingService) ListHoldings(ctx context.Context) ([]*models.Holding, error) {
	return s.store.List(), nil
}

// DeleteHolding removes a holding at the user's request.
func (s *holdingService) DeleteHolding(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(tx *store.Tx) error {
		if !tx.Delete(id) {
			return &apperrors.ErrNotFound{Resource: "holding", ID: id}
		}
		s.log.Info("holding deleted", zap.String("holding_id", id))
		return nil
	})
}

// RecordValuation appends a manual valuation and makes it the current price.
func (s *holdingService) RecordValuation(ctx context.Context, id string, point models.ValuePoint) (*models.Holding, error) {
	if point.Value.IsNegative() {
		return nil, &apperrors.ErrValidation{Field: "value", Message: "must be non-negative"}
	}
	return s.mutate(ctx, id, func(h *models.Holding, now time.Time) error {
		if h.Category.IsListed() && !h.IsManual {
			return &apperrors.ErrValidation{Field: "holding", Message: "listed holdings are valued from market quotes"}
		}
		if point.Date.IsZero() {
			point.Date = now
		}
		h.ValueHistory = append(h.ValueHistory, point)
		h.CurrentPrice = point.Value
		return nil
	})
}

// UpdateQuote stores a market quote as the holding's current price.
func (s *holdingService) UpdateQuote(ctx context.Context, id string, quote *models.PriceQuote) (*models.Holding, error) {
	if !quote.Usable() {
		return nil, &apperrors.ErrValidation{Field: "price", Message: "must be positive"}
	}
	return s.mutate(ctx, id, func(h *models.Holding, now time.Time) error {
		if quote.Status == models.QuoteManual || h.CurrentPrice.Equal(quote.Price) {
			return errUnchanged
		}
		h.CurrentPrice = quote.Price
		return nil
	})
}

// SetRecurringContribution replaces the holding's schedule. A nil schedule
// removes it; the applied-occurrence index is kept either way.
func (s *holdingService) SetRecurringContribution(ctx context.Context, id string, schedule *models.RecurringContribution) (*models.Holding, error) {
	if schedule != nil {
		if err := schedule.Validate(); err != nil {
			return nil, &apperrors.ErrValidation{Field: "recurring", Message: err.Error()}
		}
	}
	return s.mutate(ctx, id, func(h *models.Holding, now time.Time) error {
		if schedule == nil {
			h.Recurring = nil
			return nil
		}
		next := *schedule
		if h.Recurring != nil && next.LastAppliedOccurrence == "" && next.LastValidatedOccurrence == "" {
			next.LastAppliedOccurrence = h.Recurring.LastAppliedOccurrence
			next.LastValidatedOccurrence = h.Recurring.LastValidatedOccurrence
		}
		h.Recurring = &next
		return nil
	})
}

// errUnchanged lets a mutate callback succeed without writing.
var errUnchanged = errors.New("unchanged")

func (s *holdingService) mutate(ctx context.Context, id string, fn func(h *models.Holding, now time.Time) error) (*models.Holding, error) {
	var result *models.Holding
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		h, ok := tx.Get(id)
		if !ok {
			return &apperrors.ErrNotFound{Resource: "holding", ID: id}
		}
		now := s.now()
		switch err := fn(h, now); err {
		case nil:
			h.UpdatedAt = now
			tx.Touch()
		case errUnchanged:
		default:
			return err
		}
		result = h.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
