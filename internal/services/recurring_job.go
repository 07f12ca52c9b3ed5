package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tropicaldog17/folio/internal/logger"
	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/store"
)

const recurringJobTimeout = 5 * time.Minute

// RecurringContributionJob applies due occurrences of auto-apply schedules.
type RecurringContributionJob struct {
	store         *store.Store
	schedule      ScheduleService
	contributions ContributionService
	log           *zap.Logger
	now           func() time.Time
}

// RecurringRunSummary counts what a single run did.
type RecurringRunSummary struct {
	Applied  int
	Skipped  int
	Rejected int
}

func NewRecurringContributionJob(st *store.Store, schedule ScheduleService, contributions ContributionService, log *zap.Logger) *RecurringContributionJob {
	return &RecurringContributionJob{
		store:         st,
		schedule:      schedule,
		contributions: contributions,
		log:           logger.OrNop(log).Named("recurring"),
		now:           time.Now,
	}
}

func (j *RecurringContributionJob) Name() string { return "recurring_contributions" }

func (j *RecurringContributionJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), recurringJobTimeout)
	defer cancel()
	_, err := j.RunOnce(ctx)
	return err
}

// RunOnce walks every holding and confirms its due occurrences, oldest first.
// A rejected occurrence stops that holding's run so later ones are not
// applied out of order.
func (j *RecurringContributionJob) RunOnce(ctx context.Context) (RecurringRunSummary, error) {
	var summary RecurringRunSummary
	now := j.now()
	for _, h := range j.store.List() {
		if !autoApplies(h) {
			continue
		}
		for _, occ := range j.schedule.DueOccurrences(h, now) {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			res, err := j.contributions.ConfirmOccurrence(ctx, h.ID, occ.ID)
			if err != nil {
				return summary, fmt.Errorf("failed to confirm occurrence %s of %s: %w", occ.ID, h.ID, err)
			}
			if !res.OK {
				summary.Rejected++
				j.log.Warn("recurring contribution rejected",
					zap.String("holding_id", h.ID),
					zap.String("occurrence_id", occ.ID),
					zap.String("reason", res.Reason))
				break
			}
			if res.WasApplied {
				summary.Applied++
			} else {
				summary.Skipped++
			}
		}
	}
	j.log.Info("recurring run finished",
		zap.Int("applied", summary.Applied),
		zap.Int("skipped", summary.Skipped),
		zap.Int("rejected", summary.Rejected))
	return summary, nil
}

func autoApplies(h *models.Holding) bool {
	return h.Recurring != nil && h.Recurring.Enabled && h.Recurring.AutoApply
}
