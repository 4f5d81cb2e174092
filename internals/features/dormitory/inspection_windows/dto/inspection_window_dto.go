package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"asramaku_backend/internals/features/dormitory/inspection_windows/model"
	"asramaku_backend/internals/helpers/dbtime"
)

/* ===================== REQUEST ===================== */

type CreateInspectionWindowRequest struct {
	InspectionWindowName         string  `json:"inspection_window_name" validate:"required,min=3,max=100"`
	InspectionWindowStartTime    string  `json:"inspection_window_start_time" validate:"required"` // "HH:MM[:SS]"
	InspectionWindowEndTime      string  `json:"inspection_window_end_time" validate:"required"`
	InspectionWindowSpecificDate *string `json:"inspection_window_specific_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	InspectionWindowRecurringWeekdays []string `json:"inspection_window_recurring_weekdays,omitempty" validate:"omitempty,dive,oneof=MON TUE WED THU FRI SAT SUN ALL"`

	InspectionWindowIsEnabled *bool `json:"inspection_window_is_enabled,omitempty"`
	InspectionWindowIsDefault *bool `json:"inspection_window_is_default,omitempty"`

	InspectionWindowForensicsEnabled     *bool `json:"inspection_window_forensics_enabled,omitempty"`
	InspectionWindowTimeToleranceMinutes *int  `json:"inspection_window_time_tolerance_minutes,omitempty" validate:"omitempty,min=0,max=720"`

	InspectionWindowGeofenceEnabled      *bool    `json:"inspection_window_geofence_enabled,omitempty"`
	InspectionWindowReferenceLatitude    *float64 `json:"inspection_window_reference_latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	InspectionWindowReferenceLongitude   *float64 `json:"inspection_window_reference_longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	InspectionWindowGeofenceRadiusMeters *float64 `json:"inspection_window_geofence_radius_meters,omitempty" validate:"omitempty,min=1"`

	InspectionWindowPhotoContentCheckEnabled *bool `json:"inspection_window_photo_content_check_enabled,omitempty"`
}

type UpdateInspectionWindowRequest struct {
	InspectionWindowName         *string `json:"inspection_window_name,omitempty" validate:"omitempty,min=3,max=100"`
	InspectionWindowStartTime    *string `json:"inspection_window_start_time,omitempty"`
	InspectionWindowEndTime      *string `json:"inspection_window_end_time,omitempty"`
	InspectionWindowSpecificDate *string `json:"inspection_window_specific_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	InspectionWindowRecurringWeekdays *[]string `json:"inspection_window_recurring_weekdays,omitempty" validate:"omitempty,dive,oneof=MON TUE WED THU FRI SAT SUN ALL"`

	InspectionWindowIsEnabled *bool `json:"inspection_window_is_enabled,omitempty"`
	InspectionWindowIsDefault *bool `json:"inspection_window_is_default,omitempty"`

	InspectionWindowForensicsEnabled     *bool `json:"inspection_window_forensics_enabled,omitempty"`
	InspectionWindowTimeToleranceMinutes *int  `json:"inspection_window_time_tolerance_minutes,omitempty" validate:"omitempty,min=0,max=720"`

	InspectionWindowGeofenceEnabled      *bool    `json:"inspection_window_geofence_enabled,omitempty"`
	InspectionWindowReferenceLatitude    *float64 `json:"inspection_window_reference_latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	InspectionWindowReferenceLongitude   *float64 `json:"inspection_window_reference_longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	InspectionWindowGeofenceRadiusMeters *float64 `json:"inspection_window_geofence_radius_meters,omitempty" validate:"omitempty,min=1"`

	InspectionWindowPhotoContentCheckEnabled *bool `json:"inspection_window_photo_content_check_enabled,omitempty"`
}

/* ===================== RESPONSE ===================== */

type InspectionWindowResponse struct {
	InspectionWindowId                uuid.UUID `json:"inspection_window_id"`
	InspectionWindowName              string    `json:"inspection_window_name"`
	InspectionWindowStartTime         string    `json:"inspection_window_start_time"`
	InspectionWindowEndTime           string    `json:"inspection_window_end_time"`
	InspectionWindowSpecificDate      *string   `json:"inspection_window_specific_date,omitempty"`
	InspectionWindowRecurringWeekdays []string  `json:"inspection_window_recurring_weekdays"`
	InspectionWindowIsEnabled         bool      `json:"inspection_window_is_enabled"`
	InspectionWindowIsDefault         bool      `json:"inspection_window_is_default"`

	InspectionWindowForensicsEnabled     bool     `json:"inspection_window_forensics_enabled"`
	InspectionWindowTimeToleranceMinutes int      `json:"inspection_window_time_tolerance_minutes"`
	InspectionWindowGeofenceEnabled      bool     `json:"inspection_window_geofence_enabled"`
	InspectionWindowReferenceLatitude    *float64 `json:"inspection_window_reference_latitude,omitempty"`
	InspectionWindowReferenceLongitude   *float64 `json:"inspection_window_reference_longitude,omitempty"`
	InspectionWindowGeofenceRadiusMeters float64  `json:"inspection_window_geofence_radius_meters"`
	InspectionWindowPhotoContentCheckEnabled bool `json:"inspection_window_photo_content_check_enabled"`

	InspectionWindowCreatedAt time.Time `json:"inspection_window_created_at"`
}

/* ===================== MAPPER ===================== */

func (r *CreateInspectionWindowRequest) ToModel() (*model.InspectionWindowModel, error) {
	start, err := dbtime.Parse(r.InspectionWindowStartTime)
	if err != nil {
		return nil, err
	}
	end, err := dbtime.Parse(r.InspectionWindowEndTime)
	if err != nil {
		return nil, err
	}

	m := &model.InspectionWindowModel{
		InspectionWindowName:      r.InspectionWindowName,
		InspectionWindowStartTime: start,
		InspectionWindowEndTime:   end,
		InspectionWindowIsEnabled: true,
		InspectionWindowForensicsEnabled:     true,
		InspectionWindowTimeToleranceMinutes: 30,
		InspectionWindowGeofenceRadiusMeters: 200,
	}

	if r.InspectionWindowSpecificDate != nil {
		d, err := time.Parse("2006-01-02", *r.InspectionWindowSpecificDate)
		if err != nil {
			return nil, err
		}
		m.InspectionWindowSpecificDate = &d
	}
	if len(r.InspectionWindowRecurringWeekdays) > 0 {
		m.InspectionWindowRecurringWeekdays = pq.StringArray(r.InspectionWindowRecurringWeekdays)
	}
	if r.InspectionWindowIsEnabled != nil {
		m.InspectionWindowIsEnabled = *r.InspectionWindowIsEnabled
	}
	if r.InspectionWindowIsDefault != nil {
		m.InspectionWindowIsDefault = *r.InspectionWindowIsDefault
	}
	if r.InspectionWindowForensicsEnabled != nil {
		m.InspectionWindowForensicsEnabled = *r.InspectionWindowForensicsEnabled
	}
	if r.InspectionWindowTimeToleranceMinutes != nil {
		m.InspectionWindowTimeToleranceMinutes = *r.InspectionWindowTimeToleranceMinutes
	}
	if r.InspectionWindowGeofenceEnabled != nil {
		m.InspectionWindowGeofenceEnabled = *r.InspectionWindowGeofenceEnabled
	}
	m.InspectionWindowReferenceLatitude = r.InspectionWindowReferenceLatitude
	m.InspectionWindowReferenceLongitude = r.InspectionWindowReferenceLongitude
	if r.InspectionWindowGeofenceRadiusMeters != nil {
		m.InspectionWindowGeofenceRadiusMeters = *r.InspectionWindowGeofenceRadiusMeters
	}
	if r.InspectionWindowPhotoContentCheckEnabled != nil {
		m.InspectionWindowPhotoContentCheckEnabled = *r.InspectionWindowPhotoContentCheckEnabled
	}

	return m, nil
}

func FromModel(m *model.InspectionWindowModel) InspectionWindowResponse {
	var date *string
	if m.InspectionWindowSpecificDate != nil {
		s := m.InspectionWindowSpecificDate.Format("2006-01-02")
		date = &s
	}
	days := []string(m.InspectionWindowRecurringWeekdays)
	if days == nil {
		days = []string{}
	}
	return InspectionWindowResponse{
		InspectionWindowId:           m.InspectionWindowId,
		InspectionWindowName:         m.InspectionWindowName,
		InspectionWindowStartTime:    m.InspectionWindowStartTime.Format("15:04:05"),
		InspectionWindowEndTime:      m.InspectionWindowEndTime.Format("15:04:05"),
		InspectionWindowSpecificDate: date,
		InspectionWindowRecurringWeekdays: days,
		InspectionWindowIsEnabled:    m.InspectionWindowIsEnabled,
		InspectionWindowIsDefault:    m.InspectionWindowIsDefault,
		InspectionWindowForensicsEnabled:     m.InspectionWindowForensicsEnabled,
		InspectionWindowTimeToleranceMinutes: m.InspectionWindowTimeToleranceMinutes,
		InspectionWindowGeofenceEnabled:      m.InspectionWindowGeofenceEnabled,
		InspectionWindowReferenceLatitude:    m.InspectionWindowReferenceLatitude,
		InspectionWindowReferenceLongitude:   m.InspectionWindowReferenceLongitude,
		InspectionWindowGeofenceRadiusMeters: m.InspectionWindowGeofenceRadiusMeters,
		InspectionWindowPhotoContentCheckEnabled: m.InspectionWindowPhotoContentCheckEnabled,
		InspectionWindowCreatedAt: m.InspectionWindowCreatedAt,
	}
}

func FromModels(ms []model.InspectionWindowModel) []InspectionWindowResponse {
	out := make([]InspectionWindowResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i]))
	}
	return out
}
