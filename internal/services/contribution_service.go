package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/folio/internal/errors"
	"github.com/tropicaldog17/folio/internal/logger"
	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/store"
)

type contributionService struct {
	store    *store.Store
	schedule ScheduleService
	market   MarketDataService
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewContributionService creates the contribution applier. market may be nil,
// in which case confirmed occurrences are priced from the holding alone.
func NewContributionService(st *store.Store, schedule ScheduleService, market MarketDataService, log *zap.Logger) ContributionService {
	return &contributionService{
		store:    st,
		schedule: schedule,
		market:   market,
		log:      logger.OrNop(log).Named("contributions"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// errContributionRejected aborts the store update after a result was decided.
var errContributionRejected = errors.New("contribution rejected")

// ApplyContribution adds money to an existing holding. It never performs I/O
// besides the store write, so the idempotency check and the write happen under
// the same store lock.
func (s *contributionService) ApplyContribution(ctx context.Context, req models.ContributionRequest) models.ContributionResult {
	if !req.Amount.IsPositive() {
		return models.ContributionFailed(models.ReasonInvalidAmount)
	}

	var result models.ContributionResult
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		h, ok := tx.Get(req.HoldingID)
		if !ok {
			result = models.ContributionFailed(models.ReasonAssetNotFound)
			return errContributionRejected
		}
		if h.HasOccurrence(req.OccurrenceID) {
			result = models.ContributionResult{OK: true, WasApplied: false, Holding: h.Clone()}
			return nil
		}

		date := req.Date
		if date.IsZero() {
			date = s.now()
		}
		scheduled := s.isScheduledOccurrence(h, req.OccurrenceID)

		var reason string
		var txID string
		switch {
		case h.Category.IsCashLike():
			applyBalanceContribution(h, req.Amount, date)
		case h.Category.IsListed():
			txID, reason = s.applyLedgerContribution(h, req, date)
		default:
			reason = applyUnitContribution(h, req)
		}
		if reason != "" {
			result = models.ContributionFailed(reason)
			return errContributionRejected
		}

		h.RecordOccurrence(req.OccurrenceID, txID)
		if scheduled {
			h.AdvanceSchedule(req.OccurrenceID)
		}
		h.UpdatedAt = s.now()
		tx.Touch()
		result = models.ContributionResult{OK: true, WasApplied: true, TransactionID: txID, Holding: h.Clone()}
		return nil
	})

	switch {
	case errors.Is(err, errContributionRejected):
		s.log.Warn("contribution rejected",
			zap.String("holding_id", req.HoldingID),
			zap.String("occurrence_id", req.OccurrenceID),
			zap.String("reason", result.Reason))
		return result
	case err != nil:
		s.log.Error("contribution failed", zap.String("holding_id", req.HoldingID), zap.Error(err))
		return models.ContributionFailed(err.Error())
	}

	if result.WasApplied {
		s.log.Info("contribution applied",
			zap.String("holding_id", req.HoldingID),
			zap.String("occurrence_id", req.OccurrenceID),
			zap.String("amount", req.Amount.String()))
	} else {
		s.log.Info("contribution already applied",
			zap.String("holding_id", req.HoldingID),
			zap.String("occurrence_id", req.OccurrenceID))
	}
	return result
}

// isScheduledOccurrence reports whether the idempotency key names a due
// occurrence of the holding's own schedule. Free-form keys and pending
// occurrences never move the schedule bookkeeping.
func (s *contributionService) isScheduledOccurrence(h *models.Holding, occurrenceID string) bool {
	if occurrenceID == "" || h.Recurring == nil || s.schedule == nil {
		return false
	}
	occ, ok := s.schedule.Find(h, occurrenceID, s.now())
	return ok && occ.State != models.OccurrencePending
}

// ResolveUnitPrice picks the price a contribution is converted at: a positive
// override, else the current market price, else the average cost.
func ResolveUnitPrice(h *models.Holding, override *decimal.Decimal) (decimal.Decimal, bool) {
	if override != nil && override.IsPositive() {
		return *override, true
	}
	if h.CurrentPrice.IsPositive() {
		return h.CurrentPrice, true
	}
	if h.AverageCost.IsPositive() {
		return h.AverageCost, true
	}
	return decimal.Zero, false
}

// applyBalanceContribution adds the amount to a cash balance, spread across
// its nominal units.
func applyBalanceContribution(h *models.Holding, amount decimal.Decimal, date time.Time) {
	units := h.Quantity
	if !units.IsPositive() {
		units = decimal.NewFromInt(1)
		h.Quantity = units
	}
	perUnit := amount.Div(units)
	h.CurrentPrice = h.CurrentPrice.Add(perUnit)
	h.AverageCost = h.AverageCost.Add(perUnit)
	if h.IsManual {
		h.ValueHistory = append(h.ValueHistory, models.ValuePoint{Date: date, Value: h.CurrentPrice})
	}
}

func (s *contributionService) applyLedgerContribution(h *models.Holding, req models.ContributionRequest, date time.Time) (string, string) {
	price, ok := ResolveUnitPrice(h, req.UnitPriceOverride)
	if !ok {
		return "", models.ReasonMissingPrice
	}
	txID := s.newID()
	if req.OccurrenceID != "" {
		txID = models.OccurrenceTransactionID(h.ID, req.OccurrenceID)
	}
	buy := models.Transaction{
		ID:           txID,
		Type:         models.TransactionTypeBuy,
		Date:         date,
		Quantity:     req.Amount.Div(price),
		Price:        price,
		Fees:         decimal.Zero,
		OccurrenceID: req.OccurrenceID,
	}
	// Identity, date and price are set above; only the quantity can fail.
	if err := buy.Validate(); err != nil {
		return "", models.ReasonInvalidQuantity
	}
	ledger := append([]models.Transaction(nil), models.NormalizeLedger(h)...)
	ledger = append(ledger, buy)
	h.Transactions = ledger
	h.ApplyPosition(models.AggregatePosition(ledger, s.now()))
	return txID, ""
}

// applyUnitContribution updates quantity and weighted cost of a non-listed,
// unit-priced holding directly.
func applyUnitContribution(h *models.Holding, req models.ContributionRequest) string {
	price, ok := ResolveUnitPrice(h, req.UnitPriceOverride)
	if !ok {
		return models.ReasonMissingPrice
	}
	added := req.Amount.Div(price)
	if !added.IsPositive() {
		return models.ReasonInvalidQuantity
	}
	oldQty := h.Quantity
	if oldQty.IsNegative() {
		oldQty = decimal.Zero
	}
	newQty := oldQty.Add(added)
	h.AverageCost = oldQty.Mul(h.AverageCost).Add(req.Amount).Div(newQty)
	h.Quantity = newQty
	return ""
}

// ConfirmOccurrence applies a due recurring occurrence at the schedule's
// amount. The market quote is fetched before the applier runs.
func (s *contributionService) ConfirmOccurrence(ctx context.Context, holdingID, occurrenceID string) (models.ContributionResult, error) {
	h, ok := s.store.Get(holdingID)
	if !ok {
		return models.ContributionFailed(models.ReasonAssetNotFound), nil
	}
	occ, err := s.findOccurrence(h, occurrenceID)
	if err != nil {
		return models.ContributionResult{}, err
	}

	req := models.ContributionRequest{
		HoldingID:    holdingID,
		Amount:       occ.Amount,
		Date:         occ.Date,
		OccurrenceID: occ.ID,
	}
	if s.market != nil && !h.Category.IsCashLike() {
		quote, err := s.market.GetQuote(ctx, h)
		if err != nil {
			s.log.Warn("quote unavailable, pricing from holding",
				zap.String("holding_id", holdingID), zap.Error(err))
		} else if quote.Usable() {
			price := quote.Price
			req.UnitPriceOverride = &price
		}
	}
	return s.ApplyContribution(ctx, req), nil
}

// DismissOccurrence skips a due occurrence without applying money.
func (s *contributionService) DismissOccurrence(ctx context.Context, holdingID, occurrenceID string) error {
	return s.store.Update(ctx, func(tx *store.Tx) error {
		h, ok := tx.Get(holdingID)
		if !ok {
			return &apperrors.ErrNotFound{Resource: "holding", ID: holdingID}
		}
		occ, err := s.findOccurrence(h, occurrenceID)
		if err != nil {
			return err
		}
		if occ.State == models.OccurrenceApplied {
			return &apperrors.ErrValidation{Field: "occurrence_id", Message: "occurrence already applied"}
		}
		if occ.ID > h.Recurring.LastValidatedOccurrence {
			h.Recurring.LastValidatedOccurrence = occ.ID
			h.UpdatedAt = s.now()
			tx.Touch()
		}
		s.log.Info("occurrence dismissed",
			zap.String("holding_id", holdingID),
			zap.String("occurrence_id", occ.ID))
		return nil
	})
}

func (s *contributionService) findOccurrence(h *models.Holding, occurrenceID string) (models.Occurrence, error) {
	if h.Recurring == nil || !h.Recurring.Enabled {
		return models.Occurrence{}, &apperrors.ErrValidation{Field: "recurring", Message: "holding has no active schedule"}
	}
	now := s.now()
	occ, ok := s.schedule.Find(h, occurrenceID, now)
	if !ok {
		return models.Occurrence{}, &apperrors.ErrNotFound{Resource: "occurrence", ID: occurrenceID}
	}
	if occ.State == models.OccurrencePending {
		return models.Occurrence{}, &apperrors.ErrValidation{Field: "occurrence_id", Message: "occurrence is not due yet"}
	}
	return occ, nil
}
