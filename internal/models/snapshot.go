package models

import (
	"fmt"
	"time"
)

// SnapshotSchemaVersion is the version of the persisted portfolio blob.
const SnapshotSchemaVersion = 1

// Snapshot is the full persisted portfolio state. It is loaded once at
// startup and rewritten in full after every mutation.
type Snapshot struct {
	SchemaVersion int        `json:"schema_version"`
	Revision      int64      `json:"revision"`
	SavedAt       time.Time  `json:"saved_at"`
	Holdings      []*Holding `json:"holdings"`
}

// Upgrade brings an older snapshot to the current schema. Version 0 blobs
// predate ledger tracking: listed holdings get their legacy transaction.
func (s *Snapshot) Upgrade() error {
	switch {
	case s.SchemaVersion > SnapshotSchemaVersion:
		return fmt.Errorf("snapshot schema %d is newer than supported %d", s.SchemaVersion, SnapshotSchemaVersion)
	case s.SchemaVersion == SnapshotSchemaVersion:
		return nil
	}
	for _, h := range s.Holdings {
		if h.Category.IsListed() {
			h.Transactions = NormalizeLedger(h)
		}
	}
	s.SchemaVersion = SnapshotSchemaVersion
	return nil
}
