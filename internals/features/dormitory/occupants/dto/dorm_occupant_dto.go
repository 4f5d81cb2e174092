package dto

import (
	"asramaku_backend/internals/features/dormitory/occupants/model"

	"github.com/google/uuid"
)

type CreateDormOccupantRequest struct {
	DormOccupantUserId         string `json:"dorm_occupant_user_id" validate:"required,uuid"`
	DormOccupantName           string `json:"dorm_occupant_name" validate:"required,min=2,max=100"`
	DormOccupantRoomIdentifier string `json:"dorm_occupant_room_identifier" validate:"required,max=50"`
}

type UpdateDormOccupantRequest struct {
	DormOccupantName           *string `json:"dorm_occupant_name" validate:"omitempty,min=2,max=100"`
	DormOccupantRoomIdentifier *string `json:"dorm_occupant_room_identifier" validate:"omitempty,max=50"`
	DormOccupantIsActive       *bool   `json:"dorm_occupant_is_active"`
}

func (r CreateDormOccupantRequest) ToModel() *model.DormOccupantModel {
	userID, _ := uuid.Parse(r.DormOccupantUserId)
	return &model.DormOccupantModel{
		DormOccupantUserId:         userID,
		DormOccupantName:           r.DormOccupantName,
		DormOccupantRoomIdentifier: r.DormOccupantRoomIdentifier,
		DormOccupantIsActive:       true,
	}
}
