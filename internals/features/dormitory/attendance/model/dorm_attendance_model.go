package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DormAttendanceStatusAbsent   = "absent" // ledger dibuka, belum ada submission
	DormAttendanceStatusPass     = "pass"
	DormAttendanceStatusFail     = "fail"
	DormAttendanceStatusRejected = "rejected"
)

// DormAttendanceModel = ledger kehadiran periksa kamar, satu baris per
// penghuni per tanggal. Baris dibuat saat admin membuka ledger; pipeline
// submission hanya meng-update baris yang sudah ada.
type DormAttendanceModel struct {
	DormAttendanceId uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:dorm_attendance_id" json:"dorm_attendance_id"`

	DormAttendanceDate       time.Time `gorm:"type:date;not null;uniqueIndex:uq_dorm_attendances_date_occupant;column:dorm_attendance_date" json:"dorm_attendance_date"`
	DormAttendanceOccupantId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_dorm_attendances_date_occupant;column:dorm_attendance_occupant_id" json:"dorm_attendance_occupant_id"`

	DormAttendanceOccupantName   string `gorm:"not null;column:dorm_attendance_occupant_name" json:"dorm_attendance_occupant_name"`
	DormAttendanceRoomIdentifier string `gorm:"not null;column:dorm_attendance_room_identifier" json:"dorm_attendance_room_identifier"`

	DormAttendanceIsSubmitted    bool       `gorm:"not null;default:false;column:dorm_attendance_is_submitted" json:"dorm_attendance_is_submitted"`
	DormAttendanceSubmissionTime *time.Time `gorm:"column:dorm_attendance_submission_time" json:"dorm_attendance_submission_time,omitempty"`
	DormAttendanceScore          *int       `gorm:"column:dorm_attendance_score" json:"dorm_attendance_score,omitempty"`
	DormAttendanceStatus         string     `gorm:"not null;default:'absent';column:dorm_attendance_status" json:"dorm_attendance_status"`
	DormAttendanceNotes          string     `gorm:"column:dorm_attendance_notes" json:"dorm_attendance_notes"`

	DormAttendanceCreatedAt time.Time  `gorm:"column:dorm_attendance_created_at;autoCreateTime" json:"dorm_attendance_created_at"`
	DormAttendanceUpdatedAt *time.Time `gorm:"column:dorm_attendance_updated_at;autoUpdateTime" json:"dorm_attendance_updated_at,omitempty"`
}

func (DormAttendanceModel) TableName() string {
	return "dorm_attendances"
}
