package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"asramaku_backend/internals/features/dormitory/inspections/model"
)

// Submit kedua untuk (penghuni, tanggal) yang sama.
var ErrAlreadySubmitted = errors.New("sudah ada submission untuk hari ini")

// SubmissionStore: reservasi atomik + finalisasi verdict.
// Reserve menutup race submit ganda lewat unique constraint,
// BUKAN lewat cek baca-dulu di aplikasi.
type SubmissionStore interface {
	Reserve(ctx context.Context, m *model.RoomInspectionModel) error
	Finalize(ctx context.Context, m *model.RoomInspectionModel) error
	Remove(ctx context.Context, id uuid.UUID) error
	FindByOccupantAndDate(ctx context.Context, occupantID uuid.UUID, date time.Time) (*model.RoomInspectionModel, error)
}

type GormSubmissionStore struct {
	DB *gorm.DB
}

func NewGormSubmissionStore(db *gorm.DB) *GormSubmissionStore { return &GormSubmissionStore{DB: db} }

func (s *GormSubmissionStore) Reserve(ctx context.Context, m *model.RoomInspectionModel) error {
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadySubmitted
		}
		return err
	}
	return nil
}

func (s *GormSubmissionStore) Finalize(ctx context.Context, m *model.RoomInspectionModel) error {
	return s.DB.WithContext(ctx).
		Model(&model.RoomInspectionModel{}).
		Where("room_inspection_id = ?", m.RoomInspectionId).
		Updates(map[string]any{
			"room_inspection_image_url":                m.RoomInspectionImageUrl,
			"room_inspection_score":                    m.RoomInspectionScore,
			"room_inspection_status":                   m.RoomInspectionStatus,
			"room_inspection_feedback":                 m.RoomInspectionFeedback,
			"room_inspection_reasons":                  m.RoomInspectionReasons,
			"room_inspection_used_fallback":            m.RoomInspectionUsedFallback,
			"room_inspection_forensic_penalty_applied": m.RoomInspectionForensicPenaltyApplied,
			"room_inspection_capture_timestamp":        m.RoomInspectionCaptureTimestamp,
			"room_inspection_capture_latitude":         m.RoomInspectionCaptureLatitude,
			"room_inspection_capture_longitude":        m.RoomInspectionCaptureLongitude,
			"room_inspection_editing_software_tag":     m.RoomInspectionEditingSoftwareTag,
			"room_inspection_forensic_valid":           m.RoomInspectionForensicValid,
		}).Error
}

// Remove membatalkan reservasi saat persist gagal — tidak boleh ada
// verdict setengah jadi yang tertinggal.
func (s *GormSubmissionStore) Remove(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Delete(&model.RoomInspectionModel{}, "room_inspection_id = ?", id).Error
}

func (s *GormSubmissionStore) FindByOccupantAndDate(ctx context.Context, occupantID uuid.UUID, date time.Time) (*model.RoomInspectionModel, error) {
	var m model.RoomInspectionModel
	err := s.DB.WithContext(ctx).
		First(&m, "room_inspection_occupant_id = ? AND room_inspection_date = ?", occupantID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Deteksi unique violation Postgres (kode "23505")
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "23505")
}
