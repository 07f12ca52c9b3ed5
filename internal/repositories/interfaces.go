package repositories

import (
	"context"

	"github.com/tropicaldog17/folio/internal/models"
)

// SnapshotRepository persists the whole portfolio as one versioned blob.
type SnapshotRepository interface {
	// Load returns the stored snapshot, or nil when nothing was saved yet.
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snapshot *models.Snapshot) error
}
