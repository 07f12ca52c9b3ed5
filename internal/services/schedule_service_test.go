package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/folio/internal/models"
)

func occurrenceIDs(occs []models.Occurrence) []string {
	ids := make([]string, 0, len(occs))
	for _, o := range occs {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestScheduleService_Occurrences_Monthly(t *testing.T) {
	svc := NewScheduleService()
	schedule := &models.RecurringContribution{
		Frequency:  models.FrequencyMonthly,
		StartDate:  day(2024, 1, 15),
		Amount:     dec("100"),
		DayOfMonth: 31,
	}

	occs := svc.Occurrences(schedule, day(2023, 12, 1), day(2024, 4, 30))
	require.Len(t, occs, 4)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-04"}, occurrenceIDs(occs))
	assert.Equal(t, day(2024, 1, 31), occs[0].Date)
	assert.Equal(t, day(2024, 2, 29), occs[1].Date)
	assert.Equal(t, day(2024, 4, 30), occs[3].Date)
	assert.True(t, occs[0].Amount.Equal(dec("100")))
}

func TestScheduleService_Occurrences_MonthlyBeforeStartDay(t *testing.T) {
	svc := NewScheduleService()
	schedule := &models.RecurringContribution{
		Frequency:  models.FrequencyMonthly,
		StartDate:  day(2024, 1, 20),
		DayOfMonth: 5,
	}
	occs := svc.Occurrences(schedule, day(2024, 1, 1), day(2024, 3, 1))
	assert.Equal(t, []string{"2024-02"}, occurrenceIDs(occs))
}

func TestScheduleService_Occurrences_Weekly(t *testing.T) {
	svc := NewScheduleService()
	// 2024-01-03 is a Wednesday.
	schedule := &models.RecurringContribution{
		Frequency: models.FrequencyWeekly,
		StartDate: day(2024, 1, 3),
		Weekday:   time.Monday,
	}
	occs := svc.Occurrences(schedule, day(2024, 1, 1), day(2024, 1, 31))
	assert.Equal(t, []string{"2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}, occurrenceIDs(occs))
}

func TestScheduleService_Occurrences_BiweeklyWindowAfterStart(t *testing.T) {
	svc := NewScheduleService()
	schedule := &models.RecurringContribution{
		Frequency: models.FrequencyBiweekly,
		StartDate: day(2024, 1, 1),
		Weekday:   time.Monday,
	}
	occs := svc.Occurrences(schedule, day(2024, 1, 10), day(2024, 2, 15))
	assert.Equal(t, []string{"2024-01-15", "2024-01-29", "2024-02-12"}, occurrenceIDs(occs))
}

func TestScheduleService_Occurrences_Empty(t *testing.T) {
	svc := NewScheduleService()
	assert.Empty(t, svc.Occurrences(nil, day(2024, 1, 1), day(2024, 2, 1)))
	assert.Empty(t, svc.Occurrences(&models.RecurringContribution{Frequency: models.FrequencyMonthly, DayOfMonth: 1}, day(2024, 1, 1), day(2024, 2, 1)))

	schedule := &models.RecurringContribution{Frequency: models.FrequencyMonthly, StartDate: day(2024, 1, 1), DayOfMonth: 1}
	assert.Empty(t, svc.Occurrences(schedule, day(2024, 3, 1), day(2024, 2, 1)))
}

func TestScheduleService_HoldingOccurrencesStates(t *testing.T) {
	svc := NewScheduleService()
	h := &models.Holding{
		ID:                 "h1",
		Recurring:          monthlySchedule("100"),
		AppliedOccurrences: map[string]string{"2024-01": "x"},
	}
	occs := svc.HoldingOccurrences(h, day(2024, 1, 1), day(2024, 4, 30), testNow)
	require.Len(t, occs, 4)
	assert.Equal(t, models.OccurrenceApplied, occs[0].State)
	assert.Equal(t, models.OccurrenceDue, occs[1].State)
	assert.Equal(t, models.OccurrenceDue, occs[2].State)
	assert.Equal(t, models.OccurrencePending, occs[3].State)
}

func TestScheduleService_DueOccurrences(t *testing.T) {
	svc := NewScheduleService()
	h := &models.Holding{ID: "h1", Recurring: monthlySchedule("100")}
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, occurrenceIDs(svc.DueOccurrences(h, testNow)))

	h.Recurring.LastValidatedOccurrence = "2024-01"
	h.AppliedOccurrences = map[string]string{"2024-03": ""}
	assert.Equal(t, []string{"2024-02"}, occurrenceIDs(svc.DueOccurrences(h, testNow)))

	h.Recurring.Enabled = false
	assert.Empty(t, svc.DueOccurrences(h, testNow))
}

func TestScheduleService_Find(t *testing.T) {
	svc := NewScheduleService()
	h := &models.Holding{ID: "h1", Recurring: monthlySchedule("100")}

	occ, ok := svc.Find(h, "2024-02", testNow)
	require.True(t, ok)
	assert.Equal(t, day(2024, 2, 5), occ.Date)
	assert.Equal(t, models.OccurrenceDue, occ.State)

	_, ok = svc.Find(h, "2023-12", testNow)
	assert.False(t, ok)
	_, ok = svc.Find(h, "2024-02-05", testNow)
	assert.False(t, ok)

	h.Recurring = &models.RecurringContribution{Enabled: true, Frequency: models.FrequencyWeekly, StartDate: day(2024, 1, 1), Weekday: time.Monday}
	occ, ok = svc.Find(h, "2024-01-08", testNow)
	require.True(t, ok)
	assert.Equal(t, "2024-01-08", occ.ID)
	_, ok = svc.Find(h, "2024-01-09", testNow)
	assert.False(t, ok)
}

func TestOccurrenceID(t *testing.T) {
	d := day(2024, 7, 9)
	assert.Equal(t, "2024-07", OccurrenceID(models.FrequencyMonthly, d))
	assert.Equal(t, "2024-07-09", OccurrenceID(models.FrequencyWeekly, d))
}
