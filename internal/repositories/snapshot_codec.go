package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/tropicaldog17/folio/internal/models"
)

func encodeSnapshot(s *models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*models.Snapshot, error) {
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := s.Upgrade(); err != nil {
		return nil, err
	}
	return &s, nil
}
