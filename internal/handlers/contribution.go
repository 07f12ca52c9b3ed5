package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	apperrors "github.com/tropicaldog17/folio/internal/errors"
	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/services"
)

const dateLayout = "2006-01-02"

type ContributionHandler struct {
	contributions services.ContributionService
	schedule      services.ScheduleService
	holdings      services.HoldingService
	now           func() time.Time
}

func NewContributionHandler(contributions services.ContributionService, schedule services.ScheduleService, holdings services.HoldingService) *ContributionHandler {
	return &ContributionHandler{
		contributions: contributions,
		schedule:      schedule,
		holdings:      holdings,
		now:           time.Now,
	}
}

// ContributionBody is the JSON payload of a one-off contribution.
type ContributionBody struct {
	Amount            float64    `json:"amount"`
	Date              *time.Time `json:"date,omitempty"`
	OccurrenceID      string     `json:"occurrence_id,omitempty"`
	UnitPriceOverride *float64   `json:"unit_price_override,omitempty"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// toRequest converts the payload into a contribution request. Amount sign is
// left to the service so it can report it as a structured result.
func (b *ContributionBody) toRequest(holdingID string) (models.ContributionRequest, error) {
	if !finite(b.Amount) {
		return models.ContributionRequest{}, &apperrors.ErrValidation{Field: "amount", Message: "must be a finite number"}
	}
	req := models.ContributionRequest{
		HoldingID:    holdingID,
		Amount:       decimal.NewFromFloat(b.Amount),
		OccurrenceID: b.OccurrenceID,
	}
	if b.Date != nil {
		req.Date = *b.Date
	}
	if b.UnitPriceOverride != nil {
		if !finite(*b.UnitPriceOverride) {
			return models.ContributionRequest{}, &apperrors.ErrValidation{Field: "unit_price_override", Message: "must be a finite number"}
		}
		price := decimal.NewFromFloat(*b.UnitPriceOverride)
		req.UnitPriceOverride = &price
	}
	return req, nil
}

func writeResult(w http.ResponseWriter, res models.ContributionResult) {
	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

// HandleContribution handles POST /api/holdings/{id}/contributions
// @Summary Apply contribution
// @Description Add money to a holding. Rejected contributions return 422 with the reason.
// @Tags contributions
// @Accept json
// @Produce json
// @Param id path string true "Holding ID"
// @Param contribution body ContributionBody true "Contribution"
// @Success 200 {object} models.ContributionResult
// @Failure 400 {string} string "Invalid request"
// @Failure 422 {object} models.ContributionResult
// @Router /holdings/{id}/contributions [post]
func (h *ContributionHandler) HandleContribution(w http.ResponseWriter, r *http.Request) {
	var body ContributionBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "Invalid request body", err)
		return
	}
	req, err := body.toRequest(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "Invalid request body", err)
		return
	}
	writeResult(w, h.contributions.ApplyContribution(r.Context(), req))
}

// HandleOccurrences handles GET /api/holdings/{id}/occurrences
// @Summary List occurrences
// @Description List recurring occurrences with their state. Defaults to the schedule start through today.
// @Tags recurring
// @Produce json
// @Param id path string true "Holding ID"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {array} models.Occurrence
// @Failure 400 {string} string "Invalid date"
// @Failure 404 {string} string "Holding not found"
// @Router /holdings/{id}/occurrences [get]
func (h *ContributionHandler) HandleOccurrences(w http.ResponseWriter, r *http.Request) {
	holding, err := h.holdings.GetHolding(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "Failed to get holding", err)
		return
	}
	occurrences := []models.Occurrence{}
	if holding.Recurring == nil {
		writeJSON(w, http.StatusOK, occurrences)
		return
	}

	now := h.now()
	from, err := parseDateParam(r, "from", holding.Recurring.StartDate)
	if err != nil {
		writeError(w, "Invalid query", err)
		return
	}
	to, err := parseDateParam(r, "to", now)
	if err != nil {
		writeError(w, "Invalid query", err)
		return
	}
	if found := h.schedule.HoldingOccurrences(holding, from, to, now); found != nil {
		occurrences = found
	}
	writeJSON(w, http.StatusOK, occurrences)
}

func parseDateParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, &apperrors.ErrValidation{Field: name, Message: "expected YYYY-MM-DD"}
	}
	return t, nil
}

// HandleConfirmOccurrence handles POST /api/holdings/{id}/occurrences/{occurrence}/confirm
// @Summary Confirm occurrence
// @Description Apply a due recurring occurrence at the latest market price
// @Tags recurring
// @Produce json
// @Param id path string true "Holding ID"
// @Param occurrence path string true "Occurrence ID"
// @Success 200 {object} models.ContributionResult
// @Failure 400 {string} string "Occurrence not due"
// @Failure 404 {string} string "Occurrence not found"
// @Failure 422 {object} models.ContributionResult
// @Router /holdings/{id}/occurrences/{occurrence}/confirm [post]
func (h *ContributionHandler) HandleConfirmOccurrence(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := h.contributions.ConfirmOccurrence(r.Context(), vars["id"], vars["occurrence"])
	if err != nil {
		writeError(w, "Failed to confirm occurrence", err)
		return
	}
	writeResult(w, res)
}

// HandleDismissOccurrence handles POST /api/holdings/{id}/occurrences/{occurrence}/dismiss
// @Summary Dismiss occurrence
// @Description Skip a due occurrence without adding money
// @Tags recurring
// @Param id path string true "Holding ID"
// @Param occurrence path string true "Occurrence ID"
// @Success 204 "No Content"
// @Failure 400 {string} string "Occurrence not due or already applied"
// @Failure 404 {string} string "Occurrence not found"
// @Router /holdings/{id}/occurrences/{occurrence}/dismiss [post]
func (h *ContributionHandler) HandleDismissOccurrence(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.contributions.DismissOccurrence(r.Context(), vars["id"], vars["occurrence"]); err != nil {
		writeError(w, "Failed to dismiss occurrence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
