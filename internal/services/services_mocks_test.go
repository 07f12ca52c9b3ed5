package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/repositories"
	"github.com/tropicaldog17/folio/internal/store"
)

// ---- Mocks and fixtures shared by the service tests ----

var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mockSnapshotRepository keeps the last saved snapshot and can fail saves.
type mockSnapshotRepository struct {
	mu      sync.Mutex
	saved   *models.Snapshot
	saves   int
	failErr error
}

var _ repositories.SnapshotRepository = (*mockSnapshotRepository)(nil)

func (m *mockSnapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, nil
}

func (m *mockSnapshotRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.saved = snap
	return nil
}

// mockPriceProvider returns a fixed price and counts calls.
type mockPriceProvider struct {
	mu    sync.Mutex
	name  string
	price decimal.Decimal
	err   error
	calls int
}

var _ PriceProvider = (*mockPriceProvider)(nil)

func (m *mockPriceProvider) Name() string { return m.name }

func (m *mockPriceProvider) GetLatest(ctx context.Context, symbol, currency string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return decimal.Zero, m.err
	}
	return m.price, nil
}

func (m *mockPriceProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockMarketData returns a configured quote for every holding.
type mockMarketData struct {
	quote *models.PriceQuote
	err   error
	calls int
}

var _ MarketDataService = (*mockMarketData)(nil)

func (m *mockMarketData) GetQuote(ctx context.Context, h *models.Holding) (*models.PriceQuote, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	q := *m.quote
	return &q, nil
}

var errProviderDown = errors.New("provider down")

// seedStore returns an in-memory store holding the given holdings.
func seedStore(holdings ...*models.Holding) *store.Store {
	st := store.New(nil, nil)
	_ = st.Update(context.Background(), func(tx *store.Tx) error {
		for _, h := range holdings {
			tx.Insert(h)
		}
		return nil
	})
	return st
}

func newTestHoldingService(st *store.Store) *holdingService {
	s := NewHoldingService(st, nil).(*holdingService)
	s.now = fixedClock
	s.newID = sequentialIDs("id")
	return s
}

func newTestContributionService(st *store.Store, market MarketDataService) *contributionService {
	s := NewContributionService(st, NewScheduleService(), market, nil).(*contributionService)
	s.now = fixedClock
	s.newID = sequentialIDs("tx")
	return s
}
