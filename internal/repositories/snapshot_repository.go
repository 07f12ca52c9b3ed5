package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tropicaldog17/folio/internal/db"
	"github.com/tropicaldog17/folio/internal/models"
)

// DefaultSnapshotKey names the row holding the portfolio blob.
const DefaultSnapshotKey = "portfolio"

// snapshotRecord is one stored blob
type snapshotRecord struct {
	Key           string    `gorm:"primaryKey;column:snapshot_key;type:varchar(100)"`
	SchemaVersion int       `gorm:"column:schema_version;not null"`
	Revision      int64     `gorm:"column:revision;not null"`
	Data          []byte    `gorm:"column:data;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name for snapshot records
func (snapshotRecord) TableName() string {
	return "portfolio_snapshots"
}

type snapshotRepository struct {
	db  *db.DB
	key string
}

// NewSnapshotRepository creates a database-backed snapshot repository and
// migrates its table.
func NewSnapshotRepository(database *db.DB, key string) (SnapshotRepository, error) {
	if key == "" {
		key = DefaultSnapshotKey
	}
	if err := database.AutoMigrate(&snapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot table: %w", err)
	}
	return &snapshotRepository{db: database, key: key}, nil
}

func (r *snapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	var rec snapshotRecord
	err := r.db.WithContext(ctx).First(&rec, "snapshot_key = ?", r.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return decodeSnapshot(rec.Data)
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot *models.Snapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	rec := snapshotRecord{
		Key:           r.key,
		SchemaVersion: snapshot.SchemaVersion,
		Revision:      snapshot.Revision,
		Data:          data,
		UpdatedAt:     snapshot.SavedAt,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "snapshot_key"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
