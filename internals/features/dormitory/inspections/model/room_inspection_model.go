package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Status akhir satu submission periksa kamar.
const (
	RoomInspectionStatusPending  = "pending" // baris reservasi, belum ada verdict
	RoomInspectionStatusPass     = "pass"
	RoomInspectionStatusFail     = "fail"
	RoomInspectionStatusRejected = "rejected"
)

// Satu submission bukti periksa kamar + verdict-nya.
// UNIQUE (occupant_id, date): race submit ganda ditutup di storage,
// bukan cek aplikasi (read-then-write kebobolan saat konkuren).
type RoomInspectionModel struct {
	RoomInspectionId uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:room_inspection_id" json:"room_inspection_id"`

	RoomInspectionOccupantId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_room_inspections_occupant_date;column:room_inspection_occupant_id" json:"room_inspection_occupant_id"`
	RoomInspectionDate           time.Time `gorm:"type:date;not null;uniqueIndex:uq_room_inspections_occupant_date;column:room_inspection_date" json:"room_inspection_date"`
	RoomInspectionRoomIdentifier string    `gorm:"not null;column:room_inspection_room_identifier" json:"room_inspection_room_identifier"`

	RoomInspectionImageUrl    string    `gorm:"column:room_inspection_image_url" json:"room_inspection_image_url"`
	RoomInspectionSubmittedAt time.Time `gorm:"not null;column:room_inspection_submitted_at" json:"room_inspection_submitted_at"`

	// ===== verdict =====
	RoomInspectionScore    int            `gorm:"not null;default:0;column:room_inspection_score" json:"room_inspection_score"`
	RoomInspectionStatus   string         `gorm:"not null;default:'pending';column:room_inspection_status" json:"room_inspection_status"`
	RoomInspectionFeedback string         `gorm:"column:room_inspection_feedback" json:"room_inspection_feedback"`
	RoomInspectionReasons  datatypes.JSON `gorm:"column:room_inspection_reasons" json:"room_inspection_reasons"` // list alasan, urut deterministik

	RoomInspectionUsedFallback           bool `gorm:"not null;default:false;column:room_inspection_used_fallback" json:"room_inspection_used_fallback"`
	RoomInspectionForensicPenaltyApplied bool `gorm:"not null;default:false;column:room_inspection_forensic_penalty_applied" json:"room_inspection_forensic_penalty_applied"`

	// ===== snapshot forensik =====
	RoomInspectionCaptureTimestamp   *time.Time `gorm:"column:room_inspection_capture_timestamp" json:"room_inspection_capture_timestamp,omitempty"`
	RoomInspectionCaptureLatitude    *float64   `gorm:"column:room_inspection_capture_latitude" json:"room_inspection_capture_latitude,omitempty"`
	RoomInspectionCaptureLongitude   *float64   `gorm:"column:room_inspection_capture_longitude" json:"room_inspection_capture_longitude,omitempty"`
	RoomInspectionEditingSoftwareTag *string    `gorm:"column:room_inspection_editing_software_tag" json:"room_inspection_editing_software_tag,omitempty"`
	RoomInspectionForensicValid      bool       `gorm:"not null;default:true;column:room_inspection_forensic_valid" json:"room_inspection_forensic_valid"`

	// Diisi admin saat override manual (satu-satunya field yang boleh berubah
	// setelah verdict final)
	RoomInspectionAdminComment *string `gorm:"column:room_inspection_admin_comment" json:"room_inspection_admin_comment,omitempty"`

	RoomInspectionCreatedAt time.Time  `gorm:"column:room_inspection_created_at;autoCreateTime" json:"room_inspection_created_at"`
	RoomInspectionUpdatedAt *time.Time `gorm:"column:room_inspection_updated_at;autoUpdateTime" json:"room_inspection_updated_at,omitempty"`
}

func (RoomInspectionModel) TableName() string { return "room_inspections" }
