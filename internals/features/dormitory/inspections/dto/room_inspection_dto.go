package dto

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"asramaku_backend/internals/features/dormitory/inspections/model"
)

type RoomInspectionResponse struct {
	RoomInspectionId             uuid.UUID `json:"room_inspection_id"`
	RoomInspectionOccupantId     uuid.UUID `json:"room_inspection_occupant_id"`
	RoomInspectionDate           string    `json:"room_inspection_date"`
	RoomInspectionRoomIdentifier string    `json:"room_inspection_room_identifier"`
	RoomInspectionImageUrl       string    `json:"room_inspection_image_url"`
	RoomInspectionSubmittedAt    time.Time `json:"room_inspection_submitted_at"`

	RoomInspectionScore    int      `json:"room_inspection_score"`
	RoomInspectionStatus   string   `json:"room_inspection_status"`
	RoomInspectionFeedback string   `json:"room_inspection_feedback"`
	RoomInspectionReasons  []string `json:"room_inspection_reasons"`

	RoomInspectionUsedFallback           bool `json:"room_inspection_used_fallback"`
	RoomInspectionForensicPenaltyApplied bool `json:"room_inspection_forensic_penalty_applied"`
	RoomInspectionForensicValid          bool `json:"room_inspection_forensic_valid"`

	RoomInspectionAdminComment *string `json:"room_inspection_admin_comment,omitempty"`
}

type AdminCommentRequest struct {
	RoomInspectionAdminComment string `json:"room_inspection_admin_comment" validate:"required,max=500"`
}

func FromModel(m *model.RoomInspectionModel) *RoomInspectionResponse {
	var reasons []string
	if len(m.RoomInspectionReasons) > 0 {
		_ = sonic.Unmarshal(m.RoomInspectionReasons, &reasons)
	}
	if reasons == nil {
		reasons = []string{}
	}
	return &RoomInspectionResponse{
		RoomInspectionId:                     m.RoomInspectionId,
		RoomInspectionOccupantId:             m.RoomInspectionOccupantId,
		RoomInspectionDate:                   m.RoomInspectionDate.Format("2006-01-02"),
		RoomInspectionRoomIdentifier:         m.RoomInspectionRoomIdentifier,
		RoomInspectionImageUrl:               m.RoomInspectionImageUrl,
		RoomInspectionSubmittedAt:            m.RoomInspectionSubmittedAt,
		RoomInspectionScore:                  m.RoomInspectionScore,
		RoomInspectionStatus:                 m.RoomInspectionStatus,
		RoomInspectionFeedback:               m.RoomInspectionFeedback,
		RoomInspectionReasons:                reasons,
		RoomInspectionUsedFallback:           m.RoomInspectionUsedFallback,
		RoomInspectionForensicPenaltyApplied: m.RoomInspectionForensicPenaltyApplied,
		RoomInspectionForensicValid:          m.RoomInspectionForensicValid,
		RoomInspectionAdminComment:           m.RoomInspectionAdminComment,
	}
}

func FromModels(ms []model.RoomInspectionModel) []RoomInspectionResponse {
	out := make([]RoomInspectionResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
