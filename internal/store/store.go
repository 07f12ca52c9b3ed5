// Package store owns the in-memory portfolio state. Every mutation runs
// against a private copy of the holdings, is persisted as a full snapshot and
// only then becomes visible to readers.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tropicaldog17/folio/internal/logger"
	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/repositories"
)

// Store is the portfolio state container.
type Store struct {
	mu       sync.RWMutex
	repo     repositories.SnapshotRepository
	log      *zap.Logger
	now      func() time.Time
	holdings []*models.Holding
	revision int64
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the clock used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store. repo may be nil for a purely in-memory store.
func New(repo repositories.SnapshotRepository, log *zap.Logger, opts ...Option) *Store {
	s := &Store{
		repo: repo,
		log:  logger.OrNop(log).Named("store"),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted snapshot, if any.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil {
		s.holdings = nil
		s.revision = 0
		s.log.Info("no saved portfolio, starting empty")
		return nil
	}
	s.holdings = snap.Holdings
	s.revision = snap.Revision
	s.log.Info("portfolio loaded",
		zap.Int("holdings", len(snap.Holdings)),
		zap.Int64("revision", snap.Revision))
	return nil
}

// Revision returns the number of committed mutations.
func (s *Store) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Get returns a copy of the holding with the given id.
func (s *Store) Get(id string) (*models.Holding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.holdings {
		if h.ID == id {
			return h.Clone(), true
		}
	}
	return nil, false
}

// List returns copies of all holdings in insertion order.
func (s *Store) List() []*models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.holdings)
}

// Update runs fn against a working copy of the portfolio. When fn returns nil
// and changed something, the copy is persisted and swapped in; otherwise the
// visible state is left untouched.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{holdings: cloneAll(s.holdings)}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}

	revision := s.revision + 1
	if s.repo != nil {
		snap := &models.Snapshot{
			SchemaVersion: models.SnapshotSchemaVersion,
			Revision:      revision,
			SavedAt:       s.now().UTC(),
			Holdings:      tx.holdings,
		}
		if err := s.repo.Save(ctx, snap); err != nil {
			s.log.Error("snapshot save failed, mutation discarded",
				zap.Int64("revision", revision), zap.Error(err))
			return fmt.Errorf("failed to persist portfolio: %w", err)
		}
	}
	s.holdings = tx.holdings
	s.revision = revision
	return nil
}

func cloneAll(in []*models.Holding) []*models.Holding {
	out := make([]*models.Holding, 0, len(in))
	for _, h := range in {
		out = append(out, h.Clone())
	}
	return out
}

// Tx is the mutable view handed to Update callbacks. Holdings returned by it
// may be modified in place; call Touch after doing so.
type Tx struct {
	holdings []*models.Holding
	dirty    bool
}

// Get returns the working copy of a holding.
func (tx *Tx) Get(id string) (*models.Holding, bool) {
	for _, h := range tx.holdings {
		if h.ID == id {
			return h, true
		}
	}
	return nil, false
}

// Find returns the first holding matching pred.
func (tx *Tx) Find(pred func(*models.Holding) bool) (*models.Holding, bool) {
	for _, h := range tx.holdings {
		if pred(h) {
			return h, true
		}
	}
	return nil, false
}

// Insert appends a new holding.
func (tx *Tx) Insert(h *models.Holding) {
	tx.holdings = append(tx.holdings, h)
	tx.dirty = true
}

// Delete removes a holding and reports whether it existed.
func (tx *Tx) Delete(id string) bool {
	for i, h := range tx.holdings {
		if h.ID == id {
			tx.holdings = append(tx.holdings[:i:i], tx.holdings[i+1:]...)
			tx.dirty = true
			return true
		}
	}
	return false
}

// Touch marks the working copy as modified.
func (tx *Tx) Touch() {
	tx.dirty = true
}
