package dto

type OpenLedgerRequest struct {
	DormAttendanceDate string `json:"dorm_attendance_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateNotesRequest struct {
	DormAttendanceNotes string `json:"dorm_attendance_notes" validate:"max=500"`
}
