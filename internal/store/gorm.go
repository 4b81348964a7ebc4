package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"qc-tracking-backend/internal/model"
)

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store. The measurements table must
// already be migrated (see db.Init).
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

func (s *gormStore) Append(ctx context.Context, m model.Measurement) (model.Measurement, error) {
	m = stamp(m, s.now)
	m.ID = 0 // assigned by the database
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Measurement{}, fmt.Errorf("failed to insert measurement: %w", err)
	}
	return m, nil
}

func (s *gormStore) ListAll(ctx context.Context) ([]model.Measurement, error) {
	records := []model.Measurement{}
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	return records, nil
}
