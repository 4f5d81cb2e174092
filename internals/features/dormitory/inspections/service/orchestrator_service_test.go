package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	forensicService "asramaku_backend/internals/features/dormitory/forensics/service"
	windowModel "asramaku_backend/internals/features/dormitory/inspection_windows/model"
	windowService "asramaku_backend/internals/features/dormitory/inspection_windows/service"
	"asramaku_backend/internals/features/dormitory/inspections/model"
	scoringService "asramaku_backend/internals/features/dormitory/scoring/service"
)

/* =========================================================
   FAKES
========================================================= */

type fakeGate struct {
	result windowService.GateResult
	err    error
}

func (f *fakeGate) EvaluateAt(ctx context.Context, now time.Time) (windowService.GateResult, error) {
	return f.result, f.err
}

type fakeForensic struct {
	meta   forensicService.CaptureMetadata
	report forensicService.ForensicReport
	called bool
}

func (f *fakeForensic) ExtractMetadata(imageBytes []byte) forensicService.CaptureMetadata {
	return f.meta
}

func (f *fakeForensic) Analyze(meta forensicService.CaptureMetadata, now time.Time, cfg *windowModel.InspectionWindowModel) forensicService.ForensicReport {
	f.called = true
	return f.report
}

type fakeScorer struct {
	scoreRes    scoringService.ScoreResult
	scoreErr    error
	scoreCalled bool

	sceneOK       bool
	sceneCategory string
	sceneCalled   bool
}

func (f *fakeScorer) Score(ctx context.Context, imageBytes []byte, mimeType string) (scoringService.ScoreResult, error) {
	f.scoreCalled = true
	return f.scoreRes, f.scoreErr
}

func (f *fakeScorer) CheckRoomScene(ctx context.Context, imageBytes []byte, mimeType string) (bool, string) {
	f.sceneCalled = true
	return f.sceneOK, f.sceneCategory
}

type fakeSubmissionStore struct {
	reserveErr  error
	finalizeErr error

	reserved  []*model.RoomInspectionModel
	finalized []*model.RoomInspectionModel
	removed   []uuid.UUID
}

func (f *fakeSubmissionStore) Reserve(ctx context.Context, m *model.RoomInspectionModel) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	m.RoomInspectionId = uuid.New()
	f.reserved = append(f.reserved, m)
	return nil
}

func (f *fakeSubmissionStore) Finalize(ctx context.Context, m *model.RoomInspectionModel) error {
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	f.finalized = append(f.finalized, m)
	return nil
}

func (f *fakeSubmissionStore) Remove(ctx context.Context, id uuid.UUID) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeSubmissionStore) FindByOccupantAndDate(ctx context.Context, occupantID uuid.UUID, date time.Time) (*model.RoomInspectionModel, error) {
	return nil, nil
}

type fakeImageStore struct {
	url      string
	storeErr error
	stored   int
	deleted  []string
}

func (f *fakeImageStore) Store(ctx context.Context, imageBytes []byte, filename string) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.stored++
	return f.url, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeLedger struct {
	syncErr error
	synced  []*Verdict
}

func (f *fakeLedger) Sync(ctx context.Context, v *Verdict) error {
	if f.syncErr != nil {
		return f.syncErr
	}
	f.synced = append(f.synced, v)
	return nil
}

/* =========================================================
   SETUP
========================================================= */

type orchFixture struct {
	svc      *OrchestratorService
	gate     *fakeGate
	forensic *fakeForensic
	scorer   *fakeScorer
	store    *fakeSubmissionStore
	images   *fakeImageStore
	ledger   *fakeLedger
}

func openWindow() *windowModel.InspectionWindowModel {
	return &windowModel.InspectionWindowModel{
		InspectionWindowName:                 "Periksa kamar malam",
		InspectionWindowIsEnabled:            true,
		InspectionWindowForensicsEnabled:     true,
		InspectionWindowTimeToleranceMinutes: 30,
	}
}

func validReport() forensicService.ForensicReport {
	return forensicService.ForensicReport{
		DateValid: true, TimeValid: true, LocationValid: true, NotEdited: true,
		OverallValid: true,
		DateChecked:  true, TimeChecked: true, EditChecked: true,
	}
}

func newFixture(t *testing.T) *orchFixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	fx := &orchFixture{
		gate: &fakeGate{result: windowService.GateResult{
			Allowed:      true,
			ActiveConfig: openWindow(),
		}},
		forensic: &fakeForensic{report: validReport()},
		scorer: &fakeScorer{
			scoreRes: scoringService.ScoreResult{Score: 8, Feedback: "Kamar rapi.", Succeeded: true},
			sceneOK:  true,
		},
		store:  &fakeSubmissionStore{},
		images: &fakeImageStore{url: "https://cdn.example.com/room-inspections/foto.webp"},
		ledger: &fakeLedger{},
	}
	fx.svc = NewOrchestratorService(fx.gate, fx.forensic, fx.scorer, fx.store, fx.images, fx.ledger, loc, 6)
	fx.svc.Now = func() time.Time {
		return time.Date(2026, 3, 2, 21, 30, 0, 0, loc)
	}
	return fx
}

func (fx *orchFixture) submit(t *testing.T) (*Verdict, error) {
	t.Helper()
	return fx.svc.Submit(context.Background(), uuid.New(), "A-101", []byte("img"), "foto.jpg", "image/jpeg")
}

/* =========================================================
   TESTS
========================================================= */

func TestSubmit_HappyPathPasses(t *testing.T) {
	fx := newFixture(t)

	v, err := fx.submit(t)
	require.NoError(t, err)

	assert.True(t, v.Accepted)
	assert.Equal(t, 8, v.Score)
	assert.Equal(t, model.RoomInspectionStatusPass, v.Status)
	assert.Empty(t, v.Reasons)
	assert.False(t, v.ForensicPenaltyApplied)
	assert.Equal(t, fx.images.url, v.ImageURL)
	assert.Equal(t, "2026-03-02", v.Date.Format("2006-01-02"))
	// jam submit pada verdict = jam reservasi, supaya sync ledger deterministik
	assert.Equal(t, fx.svc.Now(), v.SubmittedAt)

	require.Len(t, fx.store.finalized, 1)
	require.Len(t, fx.ledger.synced, 1)
	assert.Empty(t, fx.store.removed)
}

func TestSubmit_GateClosedShortCircuits(t *testing.T) {
	fx := newFixture(t)
	fx.gate.result = windowService.GateResult{
		Allowed: false,
		Reason:  "Periksa kamar belum dibuka, mulai pukul 21:00",
	}

	_, err := fx.submit(t)
	var gateErr *GateRejectionError
	require.ErrorAs(t, err, &gateErr)
	assert.Contains(t, gateErr.Error(), "belum dibuka")

	// tidak ada efek samping: tidak ada reservasi, scoring, atau upload
	assert.Empty(t, fx.store.reserved)
	assert.False(t, fx.scorer.scoreCalled)
	assert.Zero(t, fx.images.stored)
}

func TestSubmit_DuplicateSameDay(t *testing.T) {
	fx := newFixture(t)
	fx.store.reserveErr = ErrAlreadySubmitted

	_, err := fx.submit(t)
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.False(t, fx.scorer.scoreCalled)
}

func TestSubmit_ContentCheckRejects(t *testing.T) {
	fx := newFixture(t)
	fx.gate.result.ActiveConfig.InspectionWindowPhotoContentCheckEnabled = true
	fx.scorer.sceneOK = false
	fx.scorer.sceneCategory = "lorong"

	v, err := fx.submit(t)
	require.NoError(t, err)

	assert.False(t, v.Accepted)
	assert.Equal(t, model.RoomInspectionStatusRejected, v.Status)
	assert.Zero(t, v.Score)
	require.Len(t, v.Reasons, 1)
	assert.Contains(t, v.Reasons[0], "lorong")

	// foto bukan kamar → skor penuh tidak pernah dihitung
	assert.True(t, fx.scorer.sceneCalled)
	assert.False(t, fx.scorer.scoreCalled)
	assert.False(t, fx.forensic.called)

	// tapi tetap tercatat + ledger tahu
	require.Len(t, fx.store.finalized, 1)
	require.Len(t, fx.ledger.synced, 1)
}

func TestSubmit_ForensicPenaltyApplied(t *testing.T) {
	fx := newFixture(t)
	report := validReport()
	report.TimeValid = false
	report.OverallValid = false
	fx.forensic.report = report

	v, err := fx.submit(t)
	require.NoError(t, err)

	assert.Equal(t, 5, v.Score) // 8 - 3
	assert.True(t, v.ForensicPenaltyApplied)
	assert.Equal(t, model.RoomInspectionStatusFail, v.Status)
	require.Len(t, v.Reasons, 2)
	assert.Contains(t, v.Reasons[0], "toleransi")
	assert.Contains(t, v.Reasons[1], "di bawah ambang")
}

func TestSubmit_PenaltyFloorsAtZero(t *testing.T) {
	fx := newFixture(t)
	fx.scorer.scoreRes.Score = 2
	report := validReport()
	report.NotEdited = false
	report.EditingSoftwareTag = "Adobe Photoshop"
	report.OverallValid = false
	fx.forensic.report = report

	v, err := fx.submit(t)
	require.NoError(t, err)
	assert.Zero(t, v.Score)
	assert.True(t, v.ForensicPenaltyApplied)
}

func TestSubmit_StalePhotoForcesZero(t *testing.T) {
	fx := newFixture(t)
	fx.scorer.scoreRes.Score = 10
	report := validReport()
	report.DateValid = false
	report.OverallValid = false
	fx.forensic.report = report

	v, err := fx.submit(t)
	require.NoError(t, err)

	assert.Zero(t, v.Score)
	assert.Equal(t, model.RoomInspectionStatusFail, v.Status)
	assert.Contains(t, v.Reasons[0], "foto lama")
}

func TestSubmit_ForensicsDisabledSkipsAnalysis(t *testing.T) {
	fx := newFixture(t)
	fx.gate.result.ActiveConfig.InspectionWindowForensicsEnabled = false
	report := validReport()
	report.TimeValid = false
	report.OverallValid = false
	fx.forensic.report = report // tidak boleh terpakai

	v, err := fx.submit(t)
	require.NoError(t, err)

	assert.False(t, fx.forensic.called)
	assert.Equal(t, 8, v.Score)
	assert.Equal(t, model.RoomInspectionStatusPass, v.Status)
}

func TestSubmit_FallbackNoteAppended(t *testing.T) {
	fx := newFixture(t)
	fx.scorer.scoreRes = scoringService.ScoreResult{
		Score: 7, Feedback: "Kamar terlihat cukup rapi. Pertahankan ya!",
		Succeeded: true, UsedFallback: true,
	}

	v, err := fx.submit(t)
	require.NoError(t, err)
	assert.True(t, v.UsedFallback)
	assert.Contains(t, v.Feedback, "skor sementara")
}

func TestSubmit_ScoringErrorRollsBackReservation(t *testing.T) {
	fx := newFixture(t)
	fx.scorer.scoreRes = scoringService.ScoreResult{}
	fx.scorer.scoreErr = errors.New("scoring mati total")

	_, err := fx.submit(t)
	require.Error(t, err)

	require.Len(t, fx.store.removed, 1)
	assert.Empty(t, fx.store.finalized)
	assert.Zero(t, fx.images.stored)
}

func TestSubmit_FinalizeFailureCleansUp(t *testing.T) {
	fx := newFixture(t)
	fx.store.finalizeErr = errors.New("db down")

	_, err := fx.submit(t)
	require.Error(t, err)

	require.Len(t, fx.store.removed, 1)
	require.Len(t, fx.images.deleted, 1)
	assert.Equal(t, fx.images.url, fx.images.deleted[0])
	assert.Empty(t, fx.ledger.synced)
}

func TestSubmit_LedgerFailureCleansUp(t *testing.T) {
	fx := newFixture(t)
	fx.ledger.syncErr = errors.New("ledger down")

	_, err := fx.submit(t)
	require.Error(t, err)

	require.Len(t, fx.store.removed, 1)
	require.Len(t, fx.images.deleted, 1)
}

func TestSubmit_ImageStoreFailureRollsBack(t *testing.T) {
	fx := newFixture(t)
	fx.images.storeErr = errors.New("oss down")

	_, err := fx.submit(t)
	require.Error(t, err)

	require.Len(t, fx.store.removed, 1)
	assert.Empty(t, fx.images.deleted)
	assert.Empty(t, fx.ledger.synced)
}
