package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DormOccupantModel = roster penghuni asrama. Satu user maksimal satu
// baris aktif; room identifier jadi sumber kebenaran kamar saat submit.
type DormOccupantModel struct {
	DormOccupantId uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:dorm_occupant_id" json:"dorm_occupant_id"`

	DormOccupantUserId         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:dorm_occupant_user_id" json:"dorm_occupant_user_id"`
	DormOccupantName           string    `gorm:"not null;column:dorm_occupant_name" json:"dorm_occupant_name"`
	DormOccupantRoomIdentifier string    `gorm:"not null;column:dorm_occupant_room_identifier" json:"dorm_occupant_room_identifier"`
	DormOccupantIsActive       bool      `gorm:"not null;default:true;column:dorm_occupant_is_active" json:"dorm_occupant_is_active"`

	DormOccupantCreatedAt time.Time      `gorm:"column:dorm_occupant_created_at;autoCreateTime" json:"dorm_occupant_created_at"`
	DormOccupantUpdatedAt *time.Time     `gorm:"column:dorm_occupant_updated_at;autoUpdateTime" json:"dorm_occupant_updated_at,omitempty"`
	DormOccupantDeletedAt gorm.DeletedAt `gorm:"column:dorm_occupant_deleted_at;index" json:"-"`
}

func (DormOccupantModel) TableName() string {
	return "dorm_occupants"
}
