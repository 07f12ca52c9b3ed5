package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tropicaldog17/folio/internal/logger"
	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/services"
)

type HoldingHandler struct {
	holdingService services.HoldingService
	marketData     services.MarketDataService
	log            *zap.Logger
}

func NewHoldingHandler(holdingService services.HoldingService, marketData services.MarketDataService, log *zap.Logger) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
		marketData:     marketData,
		log:            logger.OrNop(log).Named("http"),
	}
}

// HandleHoldings handles GET and POST /api/holdings
func (h *HoldingHandler) HandleHoldings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listHoldings(w, r)
	case http.MethodPost:
		h.addHolding(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// listHoldings handles GET /api/holdings
// @Summary List holdings
// @Description Retrieve every holding in the portfolio
// @Tags holdings
// @Produce json
// @Success 200 {array} models.Holding
// @Failure 500 {string} string "Internal server error"
// @Router /holdings [get]
func (h *HoldingHandler) listHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingService.ListHoldings(r.Context())
	if err != nil {
		writeError(w, "Failed to list holdings", err)
		return
	}
	writeJSON(w, http.StatusOK, holdings)
}

// addHolding handles POST /api/holdings
// @Summary Add holding
// @Description Add a position. Listed entries with a known ticker, category and currency are consolidated into the existing holding.
// @Tags holdings
// @Accept json
// @Produce json
// @Param entry body models.HoldingEntry true "Holding entry"
// @Success 201 {object} models.Holding
// @Failure 400 {string} string "Invalid entry"
// @Failure 500 {string} string "Internal server error"
// @Router /holdings [post]
func (h *HoldingHandler) addHolding(w http.ResponseWriter, r *http.Request) {
	var entry models.HoldingEntry
	if err := decodeBody(r, &entry); err != nil {
		writeError(w, "Invalid request body", err)
		return
	}
	holding, err := h.holdingService.AddHolding(r.Context(), &entry)
	if err != nil {
		writeError(w, "Failed to add holding", err)
		return
	}
	writeJSON(w, http.StatusCreated, holding)
}

// HandleHolding handles GET and DELETE /api/holdings/{id}
func (h *HoldingHandler) HandleHolding(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getHolding(w, r)
	case http.MethodDelete:
		h.deleteHolding(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// getHolding handles GET /api/holdings/{id}
// @Summary Get holding
// @Tags holdings
// @Produce json
// @Param id path string true "Holding ID"
// @Success 200 {object} models.Holding
// @Failure 404 {string} string "Holding not found"
// @Router /holdings/{id} [get]
func (h *HoldingHandler) getHolding(w http.ResponseWriter, r *http.Request) {
	holding, err := h.holdingService.GetHolding(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "Failed to get holding", err)
		return
	}
	writeJSON(w, http.StatusOK, holding)
}

// deleteHolding handles DELETE /api/holdings/{id}
// @Summary Delete holding
// @Tags holdings
// @Param id path string true "Holding ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Holding not found"
// @Router /holdings/{id} [delete]
func (h *HoldingHandler) deleteHolding(w http.ResponseWriter, r *http.Request) {
	if err := h.holdingService.DeleteHolding(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, "Failed to delete holding", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleValuation handles POST /api/holdings/{id}/valuations
// @Summary Record valuation
// @Description Append a manual valuation to a non-listed or manual holding
// @Tags holdings
// @Accept json
// @Produce json
// @Param id path string true "Holding ID"
// @Param valuation body models.ValuePoint true "Valuation"
// @Success 200 {object} models.Holding
// @Failure 400 {string} string "Invalid valuation"
// @Failure 404 {string} string "Holding not found"
// @Router /holdings/{id}/valuations [post]
func (h *HoldingHandler) HandleValuation(w http.ResponseWriter, r *http.Request) {
	var point models.ValuePoint
	if err := decodeBody(r, &point); err != nil {
		writeError(w, "Invalid request body", err)
		return
	}
	holding, err := h.holdingService.RecordValuation(r.Context(), mux.Vars(r)["id"], point)
	if err != nil {
		writeError(w, "Failed to record valuation", err)
		return
	}
	writeJSON(w, http.StatusOK, holding)
}

// HandleQuote handles POST /api/holdings/{id}/quote
// @Summary Refresh quote
// @Description Fetch the latest market quote and store it as the current price
// @Tags holdings
// @Produce json
// @Param id path string true "Holding ID"
// @Success 200 {object} models.Holding
// @Failure 404 {string} string "Holding not found"
// @Failure 502 {string} string "Quote unavailable"
// @Router /holdings/{id}/quote [post]
func (h *HoldingHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	holding, err := h.holdingService.GetHolding(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to get holding", err)
		return
	}
	quote, err := h.marketData.GetQuote(r.Context(), holding)
	if err != nil {
		h.log.Warn("quote unavailable", zap.String("holding_id", id), zap.Error(err))
		http.Error(w, "Quote unavailable: "+err.Error(), http.StatusBadGateway)
		return
	}
	updated, err := h.holdingService.UpdateQuote(r.Context(), id, quote)
	if err != nil {
		writeError(w, "Failed to update quote", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleRecurring handles PUT /api/holdings/{id}/recurring
// @Summary Set recurring contribution
// @Description Replace the holding's schedule. A null body removes it.
// @Tags recurring
// @Accept json
// @Produce json
// @Param id path string true "Holding ID"
// @Param schedule body models.RecurringContribution false "Schedule"
// @Success 200 {object} models.Holding
// @Failure 400 {string} string "Invalid schedule"
// @Failure 404 {string} string "Holding not found"
// @Router /holdings/{id}/recurring [put]
func (h *HoldingHandler) HandleRecurring(w http.ResponseWriter, r *http.Request) {
	var schedule *models.RecurringContribution
	if err := decodeBody(r, &schedule); err != nil {
		writeError(w, "Invalid request body", err)
		return
	}
	holding, err := h.holdingService.SetRecurringContribution(r.Context(), mux.Vars(r)["id"], schedule)
	if err != nil {
		writeError(w, "Failed to set recurring contribution", err)
		return
	}
	writeJSON(w, http.StatusOK, holding)
}
