package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/services"
	"github.com/tropicaldog17/folio/internal/store"
)

type stubMarketData struct {
	quote *models.PriceQuote
	err   error
}

var _ services.MarketDataService = (*stubMarketData)(nil)

func (s *stubMarketData) GetQuote(ctx context.Context, h *models.Holding) (*models.PriceQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	q := *s.quote
	return &q, nil
}

type testServer struct {
	handler http.Handler
	market  *stubMarketData
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.New(nil, nil)
	market := &stubMarketData{quote: &models.PriceQuote{Symbol: "AAPL", Currency: "USD", Price: decimal.NewFromInt(200), Status: models.QuoteFresh, Provider: "stub"}}
	schedule := services.NewScheduleService()
	holdingSvc := services.NewHoldingService(st, nil)
	contributionSvc := services.NewContributionService(st, schedule, market, nil)

	router := NewRouter(
		NewHoldingHandler(holdingSvc, market, nil),
		NewContributionHandler(contributionSvc, schedule, holdingSvc),
		nil,
	)
	return &testServer{handler: CORS(router), market: market}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeHolding(t *testing.T, rec *httptest.ResponseRecorder) models.Holding {
	t.Helper()
	var h models.Holding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	return h
}

func (s *testServer) addAAPL(t *testing.T, qty, price string) models.Holding {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/holdings",
		`{"ticker":"AAPL","category":"stock","currency":"USD","quantity":`+qty+`,"purchase_price":`+price+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeHolding(t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodOptions, "/api/holdings", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHoldings_AddConsolidatesAndLists(t *testing.T) {
	s := newTestServer(t)

	first := s.addAAPL(t, "1", "100")
	second := s.addAAPL(t, "1", "140")
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, second.AverageCost.Equal(decimal.NewFromInt(120)))

	rec := s.do(t, http.MethodGet, "/api/holdings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.Holding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	rec = s.do(t, http.MethodGet, "/api/holdings/"+first.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", decodeHolding(t, rec).Ticker)
}

func TestHoldings_AddNormalizesCategory(t *testing.T) {
	s := newTestServer(t)

	first := s.addAAPL(t, "1", "100")
	rec := s.do(t, http.MethodPost, "/api/holdings",
		`{"ticker":"aapl","category":" Stock ","currency":"usd","quantity":1,"purchase_price":140}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	merged := decodeHolding(t, rec)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, models.CategoryStock, merged.Category)
	assert.True(t, merged.Quantity.Equal(decimal.NewFromInt(2)))
}

func TestHoldings_AddRejectsInvalidEntries(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/holdings", `{"ticker":"AAPL","category":"stock","currency":"USD","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/holdings", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHoldings_GetAndDeleteMissing(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/holdings/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/holdings/nope", nil).Code)

	h := s.addAAPL(t, "1", "100")
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/holdings/"+h.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/holdings/"+h.ID, nil).Code)
}

func TestContributions_Apply(t *testing.T) {
	s := newTestServer(t)
	h := s.addAAPL(t, "1", "100")

	rec := s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/contributions",
		map[string]interface{}{"amount": 100, "occurrence_id": "2024-03", "unit_price_override": 200})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res models.ContributionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.OK)
	assert.True(t, res.WasApplied)
	require.NotNil(t, res.Holding)
	assert.True(t, res.Holding.Quantity.Equal(decimal.NewFromFloat(1.5)))

	rec = s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/contributions",
		map[string]interface{}{"amount": 100, "occurrence_id": "2024-03"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.OK)
	assert.False(t, res.WasApplied)
}

func TestContributions_Rejected(t *testing.T) {
	s := newTestServer(t)
	h := s.addAAPL(t, "1", "100")

	rec := s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/contributions", map[string]interface{}{"amount": -5})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var res models.ContributionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, models.ReasonInvalidAmount, res.Reason)

	rec = s.do(t, http.MethodPost, "/api/holdings/missing/contributions", map[string]interface{}{"amount": 5})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, models.ReasonAssetNotFound, res.Reason)

	rec = s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/contributions", `{"amount":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContributionBody_RejectsNonFinite(t *testing.T) {
	inf := math.Inf(1)
	body := ContributionBody{Amount: inf}
	_, err := body.toRequest("h1")
	assert.Error(t, err)

	body = ContributionBody{Amount: 10, UnitPriceOverride: &inf}
	_, err = body.toRequest("h1")
	assert.Error(t, err)

	price := 2.5
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	body = ContributionBody{Amount: 10, UnitPriceOverride: &price, Date: &date}
	req, err := body.toRequest("h1")
	require.NoError(t, err)
	assert.Equal(t, "h1", req.HoldingID)
	assert.Equal(t, date, req.Date)
	assert.True(t, req.UnitPriceOverride.Equal(decimal.NewFromFloat(2.5)))
}

func TestRecurring_ScheduleConfirmAndDismiss(t *testing.T) {
	s := newTestServer(t)
	h := s.addAAPL(t, "1", "100")
	start := time.Now().UTC().AddDate(0, -4, 0).Format("2006-01-02")

	rec := s.do(t, http.MethodPut, "/api/holdings/"+h.ID+"/recurring",
		`{"enabled":true,"frequency":"monthly","start_date":"`+start+`T00:00:00Z","amount":"100","day_of_month":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, decodeHolding(t, rec).Recurring)

	rec = s.do(t, http.MethodGet, "/api/holdings/"+h.ID+"/occurrences", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var occs []models.Occurrence
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &occs))
	require.GreaterOrEqual(t, len(occs), 3)
	for _, o := range occs {
		assert.Equal(t, models.OccurrenceDue, o.State)
	}

	rec = s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/occurrences/"+occs[0].ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res models.ContributionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.WasApplied)
	last := res.Holding.Transactions[len(res.Holding.Transactions)-1]
	assert.True(t, last.Price.Equal(decimal.NewFromInt(200)))

	rec = s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/occurrences/"+occs[1].ID+"/dismiss", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/occurrences/"+occs[0].ID+"/dismiss", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/occurrences/1999-01/confirm", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/holdings/"+h.ID+"/occurrences?from=bad", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecurring_InvalidSchedule(t *testing.T) {
	s := newTestServer(t)
	h := s.addAAPL(t, "1", "100")

	rec := s.do(t, http.MethodPut, "/api/holdings/"+h.ID+"/recurring", `{"frequency":"daily","amount":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/holdings/"+h.ID+"/occurrences", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestValuations(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/holdings",
		`{"name":"Flat","category":"real_estate","currency":"EUR","quantity":1,"purchase_price":250000,"is_manual":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	flat := decodeHolding(t, rec)

	rec = s.do(t, http.MethodPost, "/api/holdings/"+flat.ID+"/valuations", `{"date":"2024-06-01T00:00:00Z","value":"265000"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeHolding(t, rec)
	assert.Len(t, got.ValueHistory, 2)
	assert.True(t, got.CurrentPrice.Equal(decimal.NewFromInt(265000)))

	aapl := s.addAAPL(t, "1", "100")
	rec = s.do(t, http.MethodPost, "/api/holdings/"+aapl.ID+"/valuations", `{"value":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuote(t *testing.T) {
	s := newTestServer(t)
	h := s.addAAPL(t, "1", "100")

	rec := s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/quote", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decodeHolding(t, rec).CurrentPrice.Equal(decimal.NewFromInt(200)))

	s.market.err = errors.New("provider down")
	rec = s.do(t, http.MethodPost, "/api/holdings/"+h.ID+"/quote", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/holdings/missing/quote", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPatch, "/api/holdings", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
