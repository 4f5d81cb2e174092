package service

import (
	"context"

	"gorm.io/gorm"

	"asramaku_backend/internals/features/dormitory/inspection_windows/model"
)

// WindowStore menyuplai daftar jadwal aktif untuk gate.
// Dipisah interface supaya gate bisa dites tanpa DB.
type WindowStore interface {
	ListEnabled(ctx context.Context) ([]model.InspectionWindowModel, error)
}

type GormWindowStore struct {
	DB *gorm.DB
}

func NewGormWindowStore(db *gorm.DB) *GormWindowStore { return &GormWindowStore{DB: db} }

func (s *GormWindowStore) ListEnabled(ctx context.Context) ([]model.InspectionWindowModel, error) {
	var rows []model.InspectionWindowModel
	err := s.DB.WithContext(ctx).
		Where("inspection_window_is_enabled = TRUE").
		Order("inspection_window_specific_date ASC NULLS LAST, inspection_window_start_time ASC").
		Find(&rows).Error
	return rows, err
}
