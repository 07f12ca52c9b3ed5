package services

import (
	"time"

	"github.com/tropicaldog17/folio/internal/models"
)

const (
	monthlyOccurrenceLayout = "2006-01"
	dailyOccurrenceLayout   = "2006-01-02"
)

type scheduleService struct{}

// NewScheduleService creates the recurring contribution calendar
func NewScheduleService() ScheduleService {
	return &scheduleService{}
}

// OccurrenceID returns the canonical id of the occurrence firing on date:
// YYYY-MM for monthly schedules, YYYY-MM-DD otherwise.
func OccurrenceID(freq models.Frequency, date time.Time) string {
	if freq == models.FrequencyMonthly {
		return date.Format(monthlyOccurrenceLayout)
	}
	return date.Format(dailyOccurrenceLayout)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Occurrences lists the firing dates of schedule between from and to,
// inclusive. States are left empty.
func (s *scheduleService) Occurrences(schedule *models.RecurringContribution, from, to time.Time) []models.Occurrence {
	if schedule == nil || schedule.StartDate.IsZero() {
		return nil
	}
	start := dateOnly(schedule.StartDate)
	from, to = dateOnly(from), dateOnly(to)
	if from.Before(start) {
		from = start
	}
	if to.Before(from) {
		return nil
	}

	var dates []time.Time
	switch schedule.Frequency {
	case models.FrequencyMonthly:
		if schedule.DayOfMonth < 1 {
			return nil
		}
		for m := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(to); m = m.AddDate(0, 1, 0) {
			day := schedule.DayOfMonth
			if last := daysIn(m.Year(), m.Month()); day > last {
				day = last
			}
			d := time.Date(m.Year(), m.Month(), day, 0, 0, 0, 0, time.UTC)
			if !d.Before(from) && !d.After(to) {
				dates = append(dates, d)
			}
		}
	case models.FrequencyWeekly, models.FrequencyBiweekly:
		step := 7
		if schedule.Frequency == models.FrequencyBiweekly {
			step = 14
		}
		offset := (int(schedule.Weekday) - int(start.Weekday()) + 7) % 7
		d := start.AddDate(0, 0, offset)
		if d.Before(from) {
			gap := int(from.Sub(d).Hours() / 24)
			periods := (gap + step - 1) / step
			d = d.AddDate(0, 0, periods*step)
		}
		for ; !d.After(to); d = d.AddDate(0, 0, step) {
			dates = append(dates, d)
		}
	default:
		return nil
	}

	occs := make([]models.Occurrence, 0, len(dates))
	for _, d := range dates {
		occs = append(occs, models.Occurrence{
			ID:     OccurrenceID(schedule.Frequency, d),
			Date:   d,
			Amount: schedule.Amount,
		})
	}
	return occs
}

// State places an occurrence in its lifecycle: applied once recorded on the
// holding, due once its date has been reached, pending before that.
func (s *scheduleService) State(h *models.Holding, occ models.Occurrence, now time.Time) models.OccurrenceState {
	if h.HasOccurrence(occ.ID) {
		return models.OccurrenceApplied
	}
	if !dateOnly(occ.Date).After(dateOnly(now)) {
		return models.OccurrenceDue
	}
	return models.OccurrencePending
}

// HoldingOccurrences lists the holding's occurrences in range with states.
func (s *scheduleService) HoldingOccurrences(h *models.Holding, from, to, now time.Time) []models.Occurrence {
	if h.Recurring == nil {
		return nil
	}
	occs := s.Occurrences(h.Recurring, from, to)
	for i := range occs {
		occs[i].State = s.State(h, occs[i], now)
	}
	return occs
}

// DueOccurrences returns occurrences that have been reached, are not applied
// and come after the last validated one, oldest first.
func (s *scheduleService) DueOccurrences(h *models.Holding, now time.Time) []models.Occurrence {
	if h.Recurring == nil || !h.Recurring.Enabled {
		return nil
	}
	var due []models.Occurrence
	for _, occ := range s.HoldingOccurrences(h, h.Recurring.StartDate, now, now) {
		if occ.State != models.OccurrenceDue {
			continue
		}
		if occ.ID <= h.Recurring.LastValidatedOccurrence {
			continue
		}
		due = append(due, occ)
	}
	return due
}

// Find resolves an occurrence id against the holding's schedule.
func (s *scheduleService) Find(h *models.Holding, occurrenceID string, now time.Time) (models.Occurrence, bool) {
	if h.Recurring == nil {
		return models.Occurrence{}, false
	}
	var from, to time.Time
	if h.Recurring.Frequency == models.FrequencyMonthly {
		m, err := time.Parse(monthlyOccurrenceLayout, occurrenceID)
		if err != nil {
			return models.Occurrence{}, false
		}
		from, to = m, m.AddDate(0, 1, -1)
	} else {
		d, err := time.Parse(dailyOccurrenceLayout, occurrenceID)
		if err != nil {
			return models.Occurrence{}, false
		}
		from, to = d, d
	}
	for _, occ := range s.HoldingOccurrences(h, from, to, now) {
		if occ.ID == occurrenceID {
			return occ, true
		}
	}
	return models.Occurrence{}, false
}
