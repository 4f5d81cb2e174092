package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"asramaku_backend/internals/features/dormitory/attendance/model"
	inspectionService "asramaku_backend/internals/features/dormitory/inspections/service"
)

/* =========================================================
   STORE
========================================================= */

type AttendanceStore interface {
	FindByOccupantAndDate(ctx context.Context, occupantID uuid.UUID, date time.Time) (*model.DormAttendanceModel, error)
	MarkSubmitted(ctx context.Context, row *model.DormAttendanceModel) error
}

type GormAttendanceStore struct {
	DB *gorm.DB
}

func NewGormAttendanceStore(db *gorm.DB) *GormAttendanceStore {
	return &GormAttendanceStore{DB: db}
}

func (s *GormAttendanceStore) FindByOccupantAndDate(ctx context.Context, occupantID uuid.UUID, date time.Time) (*model.DormAttendanceModel, error) {
	var row model.DormAttendanceModel
	err := s.DB.WithContext(ctx).
		Where("dorm_attendance_occupant_id = ? AND dorm_attendance_date = ?", occupantID, date).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormAttendanceStore) MarkSubmitted(ctx context.Context, row *model.DormAttendanceModel) error {
	return s.DB.WithContext(ctx).
		Model(&model.DormAttendanceModel{}).
		Where("dorm_attendance_id = ?", row.DormAttendanceId).
		Updates(map[string]interface{}{
			"dorm_attendance_is_submitted":    row.DormAttendanceIsSubmitted,
			"dorm_attendance_submission_time": row.DormAttendanceSubmissionTime,
			"dorm_attendance_score":           row.DormAttendanceScore,
			"dorm_attendance_status":          row.DormAttendanceStatus,
		}).Error
}

/* =========================================================
   SERVICE
========================================================= */

// AttendanceService menyinkronkan verdict submission ke ledger kehadiran.
type AttendanceService struct {
	Store AttendanceStore
}

func NewAttendanceService(store AttendanceStore) *AttendanceService {
	return &AttendanceService{Store: store}
}

// Sync idempoten: dipanggil ulang untuk verdict yang sama hasilnya identik.
// Kalau baris ledger belum ada (admin belum buka ledger hari itu), cuma
// log warning, submission tetap sah.
func (s *AttendanceService) Sync(ctx context.Context, v *inspectionService.Verdict) error {
	row, err := s.Store.FindByOccupantAndDate(ctx, v.OccupantID, v.Date)
	if err != nil {
		return err
	}
	if row == nil {
		log.Printf("[ATTENDANCE] ⚠️ ledger %s belum dibuka, verdict occupant=%s tidak tercatat di ledger",
			v.Date.Format("2006-01-02"), v.OccupantID)
		return nil
	}

	// Waktu submit diambil dari verdict, bukan clock lokal: sync ulang
	// untuk verdict yang sama harus menghasilkan baris yang identik.
	submittedAt := v.SubmittedAt
	score := v.Score
	row.DormAttendanceIsSubmitted = true
	row.DormAttendanceSubmissionTime = &submittedAt
	row.DormAttendanceScore = &score
	row.DormAttendanceStatus = v.Status

	return s.Store.MarkSubmitted(ctx, row)
}

/* =========================================================
   STATISTIK HARIAN
========================================================= */

type DailyStats struct {
	Date         string  `json:"date"`
	TotalRows    int64   `json:"total_rows"`
	Submitted    int64   `json:"submitted"`
	Absent       int64   `json:"absent"`
	Passed       int64   `json:"passed"`
	Failed       int64   `json:"failed"`
	Rejected     int64   `json:"rejected"`
	AverageScore float64 `json:"average_score"`
}

// RecomputeDailyStats hitung agregat satu tanggal langsung dari DB,
// bukan dari counter yang dirawat manual.
func RecomputeDailyStats(ctx context.Context, db *gorm.DB, date time.Time) (*DailyStats, error) {
	stats := &DailyStats{Date: date.Format("2006-01-02")}

	base := func() *gorm.DB {
		return db.WithContext(ctx).
			Model(&model.DormAttendanceModel{}).
			Where("dorm_attendance_date = ?", date)
	}

	if err := base().Count(&stats.TotalRows).Error; err != nil {
		return nil, err
	}
	if err := base().Where("dorm_attendance_is_submitted = TRUE").Count(&stats.Submitted).Error; err != nil {
		return nil, err
	}
	stats.Absent = stats.TotalRows - stats.Submitted

	counts := []struct {
		status string
		dst    *int64
	}{
		{model.DormAttendanceStatusPass, &stats.Passed},
		{model.DormAttendanceStatusFail, &stats.Failed},
		{model.DormAttendanceStatusRejected, &stats.Rejected},
	}
	for _, cnt := range counts {
		if err := base().Where("dorm_attendance_status = ?", cnt.status).Count(cnt.dst).Error; err != nil {
			return nil, err
		}
	}

	if stats.Submitted > 0 {
		var avg *float64
		if err := base().
			Where("dorm_attendance_score IS NOT NULL").
			Select("AVG(dorm_attendance_score)").
			Scan(&avg).Error; err != nil {
			return nil, err
		}
		if avg != nil {
			stats.AverageScore = *avg
		}
	}

	return stats, nil
}
