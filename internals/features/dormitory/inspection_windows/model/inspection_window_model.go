package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"asramaku_backend/internals/helpers/dbtime"
)

// Jadwal jam periksa kamar. Resolusi per hari:
// specific_date > recurring_weekdays > is_default.
type InspectionWindowModel struct {
	InspectionWindowId uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:inspection_window_id" json:"inspection_window_id"`

	InspectionWindowName string `gorm:"not null;column:inspection_window_name" json:"inspection_window_name"`

	InspectionWindowStartTime dbtime.Tod `gorm:"type:time;not null;column:inspection_window_start_time" json:"inspection_window_start_time"`
	InspectionWindowEndTime   dbtime.Tod `gorm:"type:time;not null;column:inspection_window_end_time"   json:"inspection_window_end_time"`

	// Kalau diisi → aturan KHUSUS tanggal ini (weekday diabaikan)
	InspectionWindowSpecificDate *time.Time `gorm:"type:date;column:inspection_window_specific_date" json:"inspection_window_specific_date,omitempty"`

	// MON..SUN; kosong = berlaku semua hari
	InspectionWindowRecurringWeekdays pq.StringArray `gorm:"type:text[];column:inspection_window_recurring_weekdays" json:"inspection_window_recurring_weekdays"`

	InspectionWindowIsEnabled bool `gorm:"not null;default:true;column:inspection_window_is_enabled" json:"inspection_window_is_enabled"`

	// Maksimal satu default aktif (partial unique index, lihat migrasi)
	InspectionWindowIsDefault bool `gorm:"not null;default:false;column:inspection_window_is_default" json:"inspection_window_is_default"`

	// ===== pengaturan forensik per-jadwal =====
	InspectionWindowForensicsEnabled     bool `gorm:"not null;default:true;column:inspection_window_forensics_enabled" json:"inspection_window_forensics_enabled"`
	InspectionWindowTimeToleranceMinutes int  `gorm:"not null;default:30;column:inspection_window_time_tolerance_minutes" json:"inspection_window_time_tolerance_minutes"`

	InspectionWindowGeofenceEnabled      bool     `gorm:"not null;default:false;column:inspection_window_geofence_enabled" json:"inspection_window_geofence_enabled"`
	InspectionWindowReferenceLatitude    *float64 `gorm:"column:inspection_window_reference_latitude" json:"inspection_window_reference_latitude,omitempty"`
	InspectionWindowReferenceLongitude   *float64 `gorm:"column:inspection_window_reference_longitude" json:"inspection_window_reference_longitude,omitempty"`
	InspectionWindowGeofenceRadiusMeters float64  `gorm:"not null;default:200;column:inspection_window_geofence_radius_meters" json:"inspection_window_geofence_radius_meters"`

	InspectionWindowPhotoContentCheckEnabled bool `gorm:"not null;default:false;column:inspection_window_photo_content_check_enabled" json:"inspection_window_photo_content_check_enabled"`

	InspectionWindowCreatedAt time.Time      `gorm:"column:inspection_window_created_at;autoCreateTime" json:"inspection_window_created_at"`
	InspectionWindowUpdatedAt *time.Time     `gorm:"column:inspection_window_updated_at;autoUpdateTime" json:"inspection_window_updated_at,omitempty"`
	InspectionWindowDeletedAt gorm.DeletedAt `gorm:"column:inspection_window_deleted_at;index" json:"inspection_window_deleted_at,omitempty"`
}

func (InspectionWindowModel) TableName() string { return "inspection_windows" }

// AppliesToWeekday: true bila aturan berulang berlaku untuk kode hari (MON..SUN).
// Daftar kosong = ALL.
func (m *InspectionWindowModel) AppliesToWeekday(code string) bool {
	if len(m.InspectionWindowRecurringWeekdays) == 0 {
		return true
	}
	for _, d := range m.InspectionWindowRecurringWeekdays {
		if d == code || d == "ALL" {
			return true
		}
	}
	return false
}
