package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	windowModel "asramaku_backend/internals/features/dormitory/inspection_windows/model"
)

func newForensic(t *testing.T) *ForensicService {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return NewForensicService(loc)
}

func basicWindow(toleranceMinutes int) *windowModel.InspectionWindowModel {
	return &windowModel.InspectionWindowModel{
		InspectionWindowTimeToleranceMinutes: toleranceMinutes,
	}
}

func geofencedWindow(lat, lon, radius float64) *windowModel.InspectionWindowModel {
	return &windowModel.InspectionWindowModel{
		InspectionWindowTimeToleranceMinutes: 30,
		InspectionWindowGeofenceEnabled:      true,
		InspectionWindowReferenceLatitude:    &lat,
		InspectionWindowReferenceLongitude:   &lon,
		InspectionWindowGeofenceRadiusMeters: radius,
	}
}

func ptrF(v float64) *float64 { return &v }

func TestAnalyze_NoMetadataFailsOpen(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)

	report := svc.Analyze(CaptureMetadata{}, now, basicWindow(30))

	assert.True(t, report.OverallValid)
	assert.False(t, report.DateChecked)
	assert.False(t, report.TimeChecked)
	assert.False(t, report.LocationChecked)
	assert.False(t, report.EditChecked)
}

func TestAnalyze_CaptureWithinTolerance(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)
	capture := now.Add(-20 * time.Minute)

	report := svc.Analyze(CaptureMetadata{CaptureTime: &capture}, now, basicWindow(30))

	assert.True(t, report.DateChecked)
	assert.True(t, report.DateValid)
	assert.True(t, report.TimeChecked)
	assert.True(t, report.TimeValid)
	assert.True(t, report.OverallValid)
}

func TestAnalyze_CaptureBeyondTolerance(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)
	capture := now.Add(-31 * time.Minute)

	report := svc.Analyze(CaptureMetadata{CaptureTime: &capture}, now, basicWindow(30))

	assert.True(t, report.DateValid) // masih hari yang sama
	assert.False(t, report.TimeValid)
	assert.False(t, report.OverallValid)
}

func TestAnalyze_StalePhotoFromYesterday(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)
	capture := now.Add(-24 * time.Hour)

	report := svc.Analyze(CaptureMetadata{CaptureTime: &capture}, now, basicWindow(30))

	assert.False(t, report.DateValid)
	assert.False(t, report.OverallValid)
}

func TestAnalyze_GeofenceInsideRadius(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)

	// ~111 m ke utara dari titik referensi
	meta := CaptureMetadata{
		Latitude:  ptrF(-6.201),
		Longitude: ptrF(106.8),
	}
	report := svc.Analyze(meta, now, geofencedWindow(-6.200, 106.8, 200))

	assert.True(t, report.LocationChecked)
	assert.True(t, report.LocationValid)
}

func TestAnalyze_GeofenceOutsideRadius(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)

	// ~333 m ke utara dari titik referensi
	meta := CaptureMetadata{
		Latitude:  ptrF(-6.203),
		Longitude: ptrF(106.8),
	}
	report := svc.Analyze(meta, now, geofencedWindow(-6.200, 106.8, 200))

	assert.True(t, report.LocationChecked)
	assert.False(t, report.LocationValid)
	assert.False(t, report.OverallValid)
}

func TestAnalyze_GeofenceSkippedWithoutGPS(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)

	report := svc.Analyze(CaptureMetadata{}, now, geofencedWindow(-6.200, 106.8, 200))

	assert.False(t, report.LocationChecked)
	assert.True(t, report.LocationValid) // GPS hilang = lolos
}

func TestAnalyze_EditingSoftwareDenied(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)

	report := svc.Analyze(CaptureMetadata{Software: "Adobe Photoshop 25.0"}, now, basicWindow(30))

	assert.True(t, report.EditChecked)
	assert.False(t, report.NotEdited)
	assert.False(t, report.OverallValid)
}

func TestAnalyze_CameraFirmwareAllowed(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)

	report := svc.Analyze(CaptureMetadata{Software: "Canon EOS R6 Firmware 1.5"}, now, basicWindow(30))

	assert.True(t, report.EditChecked)
	assert.True(t, report.NotEdited)
	assert.True(t, report.OverallValid)
}

func TestAnalyze_NilWindowUsesDefaultTolerance(t *testing.T) {
	svc := newForensic(t)
	now := time.Date(2026, 3, 2, 21, 30, 0, 0, svc.Loc)
	capture := now.Add(-29 * time.Minute)

	report := svc.Analyze(CaptureMetadata{CaptureTime: &capture}, now, nil)

	assert.True(t, report.TimeValid)
}

func TestExtractMetadata_NotAnImage(t *testing.T) {
	svc := newForensic(t)

	meta := svc.ExtractMetadata([]byte("bukan gambar sama sekali"))

	assert.Nil(t, meta.CaptureTime)
	assert.Nil(t, meta.Latitude)
	assert.Nil(t, meta.Longitude)
	assert.Empty(t, meta.Software)
}

func TestHaversineMeters(t *testing.T) {
	// satu derajat lintang ≈ 111.19 km
	dist := HaversineMeters(0, 0, 1, 0)
	assert.InDelta(t, 111195, dist, 100)

	assert.Zero(t, HaversineMeters(-6.2, 106.8, -6.2, 106.8))
}
