package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	forensicService "asramaku_backend/internals/features/dormitory/forensics/service"
	windowModel "asramaku_backend/internals/features/dormitory/inspection_windows/model"
	windowService "asramaku_backend/internals/features/dormitory/inspection_windows/service"
	"asramaku_backend/internals/features/dormitory/inspections/model"
	scoringService "asramaku_backend/internals/features/dormitory/scoring/service"
	"asramaku_backend/internals/helpers/dbtime"
)

// Penalti skor saat forensik tidak lolos (floor 0).
const ForensicPenalty = 3

/* =========================================================
   DEPENDENCY (interface kecil di sisi pemakai, biar gampang
   di-fake saat test)
========================================================= */

type AdmissionGate interface {
	EvaluateAt(ctx context.Context, now time.Time) (windowService.GateResult, error)
}

type ForensicAnalyzer interface {
	ExtractMetadata(imageBytes []byte) forensicService.CaptureMetadata
	Analyze(meta forensicService.CaptureMetadata, now time.Time, cfg *windowModel.InspectionWindowModel) forensicService.ForensicReport
}

type RoomScorer interface {
	Score(ctx context.Context, imageBytes []byte, mimeType string) (scoringService.ScoreResult, error)
	CheckRoomScene(ctx context.Context, imageBytes []byte, mimeType string) (bool, string)
}

// ImageStore = kontrak blob storage (§ store/delete); pipeline tidak pernah
// pegang path file mentah.
type ImageStore interface {
	Store(ctx context.Context, imageBytes []byte, filename string) (string, error)
	Delete(ctx context.Context, url string) error
}

type LedgerSyncer interface {
	Sync(ctx context.Context, v *Verdict) error
}

/* =========================================================
   VERDICT & ERROR
========================================================= */

// Verdict: hasil final satu submission, immutable setelah dibuat.
type Verdict struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	OccupantID     uuid.UUID `json:"occupant_id"`
	RoomIdentifier string    `json:"room_identifier"`
	Date           time.Time `json:"date"`
	SubmittedAt    time.Time `json:"submitted_at"`

	Accepted bool   `json:"accepted"`
	Score    int    `json:"score"`
	Status   string `json:"status"` // pass | fail | rejected
	Feedback string `json:"feedback"`

	UsedFallback           bool     `json:"used_fallback"`
	ForensicPenaltyApplied bool     `json:"forensic_penalty_applied"`
	Reasons                []string `json:"reasons"`
	ImageURL               string   `json:"image_url"`

	Forensic forensicService.ForensicReport `json:"forensic"`
}

// Ditolak di gerbang jam periksa (tidak ada record yang dibuat).
type GateRejectionError struct {
	Result windowService.GateResult
}

func (e *GateRejectionError) Error() string { return e.Result.Reason }

/* =========================================================
   ORCHESTRATOR
========================================================= */

// OrchestratorService menjalankan pipeline satu submission secara berurutan:
// GATE → reservasi → CONTENT_CHECK → FORENSICS → SCORE → AGGREGATE → ledger.
// Panggilan scoring TIDAK memegang lock DB apa pun.
type OrchestratorService struct {
	Gate      AdmissionGate
	Forensic  ForensicAnalyzer
	Scorer    RoomScorer
	Store     SubmissionStore
	Images    ImageStore
	Ledger    LedgerSyncer
	Loc       *time.Location
	Now       func() time.Time
	Threshold int // skor minimal lulus
}

func NewOrchestratorService(
	gate AdmissionGate,
	forensic ForensicAnalyzer,
	scorer RoomScorer,
	store SubmissionStore,
	images ImageStore,
	ledger LedgerSyncer,
	loc *time.Location,
	threshold int,
) *OrchestratorService {
	if loc == nil {
		loc = time.UTC
	}
	if threshold <= 0 {
		threshold = 6
	}
	return &OrchestratorService{
		Gate:      gate,
		Forensic:  forensic,
		Scorer:    scorer,
		Store:     store,
		Images:    images,
		Ledger:    ledger,
		Loc:       loc,
		Now:       time.Now,
		Threshold: threshold,
	}
}

func (s *OrchestratorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit memproses satu bukti periksa kamar sampai verdict final.
func (s *OrchestratorService) Submit(
	ctx context.Context,
	occupantID uuid.UUID,
	roomIdentifier string,
	imageBytes []byte,
	filename string,
	mimeType string,
) (*Verdict, error) {
	now := s.now().In(s.Loc)
	today := dbtime.DateOnly(now, s.Loc)

	// ===== 1) GATE — short-circuit sebelum apa pun, biar tidak buang
	// panggilan scoring di luar jam periksa
	gateRes, err := s.Gate.EvaluateAt(ctx, now)
	if err != nil {
		return nil, err
	}
	if !gateRes.Allowed {
		return nil, &GateRejectionError{Result: gateRes}
	}
	cfg := gateRes.ActiveConfig

	// ===== 2) RESERVASI — insert atomik; duplicate = "sudah submit hari ini"
	row := &model.RoomInspectionModel{
		RoomInspectionOccupantId:     occupantID,
		RoomInspectionDate:           today,
		RoomInspectionRoomIdentifier: roomIdentifier,
		RoomInspectionSubmittedAt:    now,
		RoomInspectionStatus:         model.RoomInspectionStatusPending,
	}
	if err := s.Store.Reserve(ctx, row); err != nil {
		return nil, err
	}

	// ===== 3) CONTENT_CHECK (opsional per jadwal)
	if cfg != nil && cfg.InspectionWindowPhotoContentCheckEnabled {
		if ok, category := s.Scorer.CheckRoomScene(ctx, imageBytes, mimeType); !ok {
			v := &Verdict{
				SubmissionID:   row.RoomInspectionId,
				OccupantID:     occupantID,
				RoomIdentifier: roomIdentifier,
				Date:           today,
				SubmittedAt:    row.RoomInspectionSubmittedAt,
				Accepted:       false,
				Score:          0,
				Status:         model.RoomInspectionStatusRejected,
				Feedback:       fmt.Sprintf("Foto terdeteksi sebagai %s, bukan interior kamar.", category),
				Reasons:        []string{fmt.Sprintf("Foto terdeteksi sebagai %s, bukan interior kamar", category)},
				Forensic:       neutralReport(),
			}
			return s.persistVerdict(ctx, row, v, imageBytes, filename)
		}
	}

	// ===== 4) FORENSICS — hasilnya mempengaruhi skor, bukan admission
	report := neutralReport()
	if cfg == nil || cfg.InspectionWindowForensicsEnabled {
		meta := s.Forensic.ExtractMetadata(imageBytes)
		report = s.Forensic.Analyze(meta, now, cfg)
	}

	// ===== 5) SCORE
	scoreRes, err := s.Scorer.Score(ctx, imageBytes, mimeType)
	if err != nil {
		// fallback dimatikan DAN service gagal → batalkan reservasi,
		// biar penghuni bisa retry tanpa kena "sudah submit"
		s.rollback(ctx, row, "")
		return nil, err
	}

	// ===== 6) AGGREGATE
	v := s.aggregate(row, occupantID, roomIdentifier, today, cfg, report, scoreRes)

	return s.persistVerdict(ctx, row, v, imageBytes, filename)
}

// aggregate menghitung skor akhir + daftar alasan dengan urutan deterministik:
// content → tanggal → jam → lokasi → edit-tool → ambang skor.
func (s *OrchestratorService) aggregate(
	row *model.RoomInspectionModel,
	occupantID uuid.UUID,
	roomIdentifier string,
	today time.Time,
	cfg *windowModel.InspectionWindowModel,
	report forensicService.ForensicReport,
	scoreRes scoringService.ScoreResult,
) *Verdict {
	final := scoreRes.Score
	penaltyApplied := false

	if !report.OverallValid {
		final -= ForensicPenalty
		if final < 0 {
			final = 0
		}
		penaltyApplied = true
	}
	// Kebijakan foto lama menimpa hitungan penalti: langsung 0.
	if !report.DateValid {
		final = 0
	}

	status := model.RoomInspectionStatusFail
	if final >= s.Threshold {
		status = model.RoomInspectionStatusPass
	}

	var reasons []string
	if !report.DateValid {
		reasons = append(reasons, "Tanggal pengambilan foto bukan hari ini (foto lama)")
	}
	if !report.TimeValid {
		tol := 0
		if cfg != nil {
			tol = cfg.InspectionWindowTimeToleranceMinutes
		}
		reasons = append(reasons, fmt.Sprintf("Jam pengambilan foto melewati toleransi %d menit", tol))
	}
	if !report.LocationValid {
		reasons = append(reasons, "Lokasi pengambilan foto di luar radius area asrama")
	}
	if !report.NotEdited {
		reasons = append(reasons, fmt.Sprintf("Foto terindikasi diedit (%s)", report.EditingSoftwareTag))
	}
	if status == model.RoomInspectionStatusFail {
		reasons = append(reasons, fmt.Sprintf("Skor %d di bawah ambang lulus %d", final, s.Threshold))
	}

	feedback := scoreRes.Feedback
	if scoreRes.UsedFallback {
		feedback += " (Catatan: penilaian otomatis sedang terganggu, skor sementara diberikan.)"
	}

	return &Verdict{
		SubmissionID:           row.RoomInspectionId,
		OccupantID:             occupantID,
		RoomIdentifier:         roomIdentifier,
		Date:                   today,
		SubmittedAt:            row.RoomInspectionSubmittedAt,
		Accepted:               true,
		Score:                  final,
		Status:                 status,
		Feedback:               feedback,
		UsedFallback:           scoreRes.UsedFallback,
		ForensicPenaltyApplied: penaltyApplied,
		Reasons:                reasons,
		Forensic:               report,
	}
}

// persistVerdict: simpan foto → finalisasi baris → sync ledger.
// Gagal simpan = batalkan semuanya; tidak ada verdict setengah jadi.
func (s *OrchestratorService) persistVerdict(
	ctx context.Context,
	row *model.RoomInspectionModel,
	v *Verdict,
	imageBytes []byte,
	filename string,
) (*Verdict, error) {
	imageURL, err := s.Images.Store(ctx, imageBytes, filename)
	if err != nil {
		s.rollback(ctx, row, "")
		return nil, fmt.Errorf("gagal menyimpan foto bukti: %w", err)
	}
	v.ImageURL = imageURL

	reasonsJSON, err := sonic.Marshal(v.Reasons)
	if err != nil {
		reasonsJSON = []byte("[]")
	}

	row.RoomInspectionImageUrl = imageURL
	row.RoomInspectionScore = v.Score
	row.RoomInspectionStatus = v.Status
	row.RoomInspectionFeedback = v.Feedback
	row.RoomInspectionReasons = datatypes.JSON(reasonsJSON)
	row.RoomInspectionUsedFallback = v.UsedFallback
	row.RoomInspectionForensicPenaltyApplied = v.ForensicPenaltyApplied
	row.RoomInspectionCaptureTimestamp = v.Forensic.CaptureTimestamp
	row.RoomInspectionCaptureLatitude = v.Forensic.CaptureLatitude
	row.RoomInspectionCaptureLongitude = v.Forensic.CaptureLongitude
	if v.Forensic.EditingSoftwareTag != "" {
		tag := v.Forensic.EditingSoftwareTag
		row.RoomInspectionEditingSoftwareTag = &tag
	}
	row.RoomInspectionForensicValid = v.Forensic.OverallValid

	if err := s.Store.Finalize(ctx, row); err != nil {
		s.rollback(ctx, row, imageURL)
		return nil, fmt.Errorf("gagal menyimpan verdict: %w", err)
	}

	if err := s.Ledger.Sync(ctx, v); err != nil {
		s.rollback(ctx, row, imageURL)
		return nil, fmt.Errorf("gagal memperbarui ledger kehadiran: %w", err)
	}

	return v, nil
}

// neutralReport = forensik tidak dijalankan, semua dianggap lolos dan
// audit flag *Checked tetap false.
func neutralReport() forensicService.ForensicReport {
	return forensicService.ForensicReport{
		DateValid:     true,
		TimeValid:     true,
		LocationValid: true,
		NotEdited:     true,
		OverallValid:  true,
	}
}

func (s *OrchestratorService) rollback(ctx context.Context, row *model.RoomInspectionModel, imageURL string) {
	if err := s.Store.Remove(ctx, row.RoomInspectionId); err != nil {
		log.Printf("[INSPECTION] ⚠️ gagal membatalkan reservasi %s: %v", row.RoomInspectionId, err)
	}
	if imageURL != "" {
		if err := s.Images.Delete(ctx, imageURL); err != nil {
			log.Printf("[INSPECTION] ⚠️ gagal menghapus foto %s: %v", imageURL, err)
		}
	}
}
