package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/repositories"
)

const legacyBlob = `{
  "revision": 7,
  "holdings": [
    {"id": "h1", "ticker": "AAPL", "category": "stock", "currency": "USD", "quantity": "3", "average_cost": "120", "created_at": "2023-01-01T00:00:00Z"}
  ]
}`

func TestCopySnapshot_UpgradesLegacyFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(srcPath, []byte(legacyBlob), 0o644))

	src := repositories.NewFileSnapshotRepository(srcPath)
	dst := repositories.NewFileSnapshotRepository(filepath.Join(dir, "out", "portfolio.json"))

	snap, err := copySnapshot(context.Background(), src, dst, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.Revision)

	got, err := dst.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.SnapshotSchemaVersion, got.SchemaVersion)
	require.Len(t, got.Holdings, 1)
	require.Len(t, got.Holdings[0].Transactions, 1)
	assert.Equal(t, models.LegacyTransactionID("h1"), got.Holdings[0].Transactions[0].ID)
}

func TestCopySnapshot_RefusesNonEmptyDestination(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.json")
	dstPath := filepath.Join(dir, "dst.json")
	require.NoError(t, os.WriteFile(srcPath, []byte(legacyBlob), 0o644))
	require.NoError(t, os.WriteFile(dstPath, []byte(legacyBlob), 0o644))

	src := repositories.NewFileSnapshotRepository(srcPath)
	dst := repositories.NewFileSnapshotRepository(dstPath)

	_, err := copySnapshot(context.Background(), src, dst, false)
	assert.ErrorIs(t, err, errDestinationNotEmpty)

	_, err = copySnapshot(context.Background(), src, dst, true)
	assert.NoError(t, err)
}

func TestCopySnapshot_EmptySource(t *testing.T) {
	dir := t.TempDir()
	src := repositories.NewFileSnapshotRepository(filepath.Join(dir, "missing.json"))
	dst := repositories.NewFileSnapshotRepository(filepath.Join(dir, "dst.json"))

	_, err := copySnapshot(context.Background(), src, dst, false)
	assert.Error(t, err)
}
