package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/repositories"
)

var errDestinationNotEmpty = errors.New("destination already holds a portfolio, use -force to overwrite")

// copySnapshot loads the source snapshot (upgraded by the repository) and
// saves it to the destination with the current schema version.
func copySnapshot(ctx context.Context, src, dst repositories.SnapshotRepository, force bool) (*models.Snapshot, error) {
	snap, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}
	if snap == nil {
		return nil, errors.New("source has no portfolio")
	}

	if !force {
		existing, err := dst.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect destination: %w", err)
		}
		if existing != nil && len(existing.Holdings) > 0 {
			return nil, errDestinationNotEmpty
		}
	}

	snap.SchemaVersion = models.SnapshotSchemaVersion
	if err := dst.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save destination: %w", err)
	}
	return snap, nil
}
