package service

import (
	"bytes"
	"log"
	"math"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"asramaku_backend/internals/constants"
	windowModel "asramaku_backend/internals/features/dormitory/inspection_windows/model"
	"asramaku_backend/internals/helpers/dbtime"
)

// Radius bumi untuk haversine (meter)
const earthRadiusMeters = 6371000.0

// Metadata capture hasil ekstraksi EXIF. Field nil = tidak ada / gagal parse.
type CaptureMetadata struct {
	CaptureTime *time.Time `json:"capture_time,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Software    string     `json:"software,omitempty"`
}

// Hasil cek forensik. Metadata yang tidak ada dianggap LOLOS (fail-open) —
// flag *Checked disimpan supaya admin bisa audit berapa cek yang benar-benar jalan.
type ForensicReport struct {
	CaptureTimestamp   *time.Time `json:"capture_timestamp,omitempty"`
	CaptureLatitude    *float64   `json:"capture_latitude,omitempty"`
	CaptureLongitude   *float64   `json:"capture_longitude,omitempty"`
	EditingSoftwareTag string     `json:"editing_software_tag,omitempty"`

	DateValid     bool `json:"date_valid"`
	TimeValid     bool `json:"time_valid"`
	LocationValid bool `json:"location_valid"`
	NotEdited     bool `json:"not_edited"`
	OverallValid  bool `json:"overall_valid"`

	DateChecked     bool `json:"date_checked"`
	TimeChecked     bool `json:"time_checked"`
	LocationChecked bool `json:"location_checked"`
	EditChecked     bool `json:"edit_checked"`
}

type ForensicService struct {
	Loc      *time.Location
	DenyList []string // potongan nama software editing (lowercase match)
}

func NewForensicService(loc *time.Location) *ForensicService {
	if loc == nil {
		loc = time.UTC
	}
	return &ForensicService{Loc: loc, DenyList: constants.EditingSoftwareDenyList}
}

/* =========================================================
   EKSTRAKSI
   Satu field korup TIDAK boleh menggagalkan seluruh analisis:
   tiap field di-recover sendiri.
========================================================= */

func (s *ForensicService) ExtractMetadata(imageBytes []byte) CaptureMetadata {
	var meta CaptureMetadata

	x, err := exif.Decode(bytes.NewReader(imageBytes))
	if err != nil || x == nil {
		// tanpa EXIF sama sekali → semua field kosong (fail-open di Analyze)
		return meta
	}

	meta.CaptureTime = s.extractCaptureTime(x)

	func() {
		defer recoverField("gps")
		lat, lon, err := x.LatLong()
		if err == nil {
			meta.Latitude = &lat
			meta.Longitude = &lon
		}
	}()

	func() {
		defer recoverField("software")
		tag, err := x.Get(exif.Software)
		if err != nil || tag == nil {
			return
		}
		if v, err := tag.StringVal(); err == nil {
			meta.Software = strings.TrimSpace(v)
		}
	}()

	return meta
}

// extractCaptureTime: DateTimeOriginal dulu, fallback DateTime.
// Parse manual di zona aplikasi — goexif DateTime() pakai time.Local,
// dan zona proses ≠ zona asrama bikin salah hari.
func (s *ForensicService) extractCaptureTime(x *exif.Exif) (out *time.Time) {
	defer recoverField("datetime")

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(field)
		if err != nil || tag == nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, err := time.ParseInLocation("2006:01:02 15:04:05", strings.TrimSpace(raw), s.Loc)
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

func recoverField(name string) {
	if r := recover(); r != nil {
		log.Printf("[FORENSIC] ⚠️ field %s korup, dianggap tidak ada: %v", name, r)
	}
}

/* =========================================================
   ANALISIS
========================================================= */

func (s *ForensicService) Analyze(meta CaptureMetadata, now time.Time, cfg *windowModel.InspectionWindowModel) ForensicReport {
	report := ForensicReport{
		CaptureTimestamp:   meta.CaptureTime,
		CaptureLatitude:    meta.Latitude,
		CaptureLongitude:   meta.Longitude,
		EditingSoftwareTag: meta.Software,
		DateValid:          true,
		TimeValid:          true,
		LocationValid:      true,
		NotEdited:          true,
	}

	now = now.In(s.Loc)

	// 1) Tanggal capture == hari ini. Satu-satunya cek tanpa toleransi:
	//    foto kemarin = pelanggaran, bukan defek kualitas.
	if meta.CaptureTime != nil {
		report.DateChecked = true
		report.DateValid = dbtime.SameDay(*meta.CaptureTime, now, s.Loc)
	}

	toleranceMinutes := 30
	if cfg != nil {
		toleranceMinutes = cfg.InspectionWindowTimeToleranceMinutes
	}

	// 2) Selisih jam capture vs jam submit dalam toleransi
	if meta.CaptureTime != nil {
		tolerance := time.Duration(toleranceMinutes) * time.Minute
		diff := now.Sub(*meta.CaptureTime)
		if diff < 0 {
			diff = -diff
		}
		report.TimeChecked = true
		report.TimeValid = diff <= tolerance
	}

	// 3) Geofence (hanya kalau diaktifkan DAN GPS ada; GPS hilang = lolos)
	if cfg != nil && cfg.InspectionWindowGeofenceEnabled &&
		meta.Latitude != nil && meta.Longitude != nil &&
		cfg.InspectionWindowReferenceLatitude != nil && cfg.InspectionWindowReferenceLongitude != nil {
		dist := HaversineMeters(*meta.Latitude, *meta.Longitude,
			*cfg.InspectionWindowReferenceLatitude, *cfg.InspectionWindowReferenceLongitude)
		report.LocationChecked = true
		// batas radius inklusif: tepat di garis = masih sah
		report.LocationValid = dist <= cfg.InspectionWindowGeofenceRadiusMeters
	}

	// 4) Tag software editing
	if meta.Software != "" {
		report.EditChecked = true
		report.NotEdited = !s.matchesDenyList(meta.Software)
	}

	report.OverallValid = report.DateValid && report.TimeValid && report.LocationValid && report.NotEdited
	return report
}

func (s *ForensicService) matchesDenyList(software string) bool {
	low := strings.ToLower(software)
	for _, frag := range s.DenyList {
		if strings.Contains(low, strings.ToLower(frag)) {
			return true
		}
	}
	return false
}

// HaversineMeters: jarak great-circle dua koordinat dalam meter.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180.0

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
