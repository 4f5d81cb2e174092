package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"asramaku_backend/internals/features/dormitory/inspection_windows/model"
	"asramaku_backend/internals/helpers/dbtime"
)

// Hasil evaluasi gerbang jam periksa.
type GateResult struct {
	Allowed      bool                         `json:"allowed"`
	ActiveConfig *model.InspectionWindowModel `json:"active_config,omitempty"`
	Reason       string                       `json:"reason"`
	NextDate     *time.Time                   `json:"next_date,omitempty"`
	NextConfig   *model.InspectionWindowModel `json:"next_config,omitempty"`
}

// GateService memutuskan apakah "sekarang" masuk jam periksa kamar.
// SEMUA perbandingan waktu pakai Loc (bukan zona proses) — beda zona
// server vs asrama = salah hari.
type GateService struct {
	Store WindowStore
	Loc   *time.Location
	Now   func() time.Time // injected clock, default time.Now
}

func NewGateService(store WindowStore, loc *time.Location) *GateService {
	if loc == nil {
		loc = time.UTC
	}
	return &GateService{Store: store, Loc: loc, Now: time.Now}
}

func (s *GateService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Evaluate: resolusi config hari ini (specific_date > weekday > default),
// lalu banding jam buka/tutup inklusif.
func (s *GateService) Evaluate(ctx context.Context) (GateResult, error) {
	return s.EvaluateAt(ctx, s.now())
}

func (s *GateService) EvaluateAt(ctx context.Context, now time.Time) (GateResult, error) {
	configs, err := s.Store.ListEnabled(ctx)
	if err != nil {
		return GateResult{}, err
	}
	if len(configs) == 0 {
		return GateResult{
			Allowed: false,
			Reason:  "Belum ada jadwal periksa kamar yang dikonfigurasi",
		}, nil
	}

	now = now.In(s.Loc)
	today := dbtime.DateOnly(now, s.Loc)
	todayCode := dbtime.WeekdayCode(now, s.Loc)

	active := resolveForDay(configs, today, todayCode, s.Loc)
	if active == nil {
		res := GateResult{
			Allowed: false,
			Reason:  "Tidak ada jadwal periksa kamar untuk hari ini",
		}
		s.fillNextWindow(&res, configs, now, today)
		return res, nil
	}

	nowSec := dbtime.From(now).SecondsOfDay()
	startSec := active.InspectionWindowStartTime.SecondsOfDay()
	endSec := active.InspectionWindowEndTime.SecondsOfDay()

	switch {
	case nowSec < startSec:
		// Jendela hari ini BELUM buka → tidak perlu hint tanggal lain,
		// cukup kasih jam bukanya.
		return GateResult{
			Allowed:      false,
			ActiveConfig: active,
			Reason: fmt.Sprintf("Periksa kamar belum dibuka, mulai pukul %s",
				active.InspectionWindowStartTime.Format("15:04")),
		}, nil
	case nowSec > endSec:
		res := GateResult{
			Allowed:      false,
			ActiveConfig: active,
			Reason: fmt.Sprintf("Periksa kamar hari ini sudah ditutup pukul %s",
				active.InspectionWindowEndTime.Format("15:04")),
		}
		s.fillNextWindow(&res, configs, now, today)
		return res, nil
	default:
		return GateResult{
			Allowed:      true,
			ActiveConfig: active,
			Reason: fmt.Sprintf("Dalam jam periksa kamar (%s–%s)",
				active.InspectionWindowStartTime.Format("15:04"),
				active.InspectionWindowEndTime.Format("15:04")),
		}, nil
	}
}

// resolveForDay: (1) specific_date hari ini, (2) weekday berulang tanpa
// specific_date, (3) default tanpa specific_date.
func resolveForDay(configs []model.InspectionWindowModel, today time.Time, todayCode string, loc *time.Location) *model.InspectionWindowModel {
	for i := range configs {
		c := &configs[i]
		if c.InspectionWindowSpecificDate != nil && dbtime.SameDay(*c.InspectionWindowSpecificDate, today, loc) {
			return c
		}
	}
	// daftar hari kosong atau memuat "ALL" = berlaku semua hari
	for i := range configs {
		c := &configs[i]
		if c.InspectionWindowSpecificDate == nil && !c.InspectionWindowIsDefault && c.AppliesToWeekday(todayCode) {
			return c
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.InspectionWindowSpecificDate == nil && c.InspectionWindowIsDefault {
			return c
		}
	}
	return nil
}

// fillNextWindow: cari jadwal specific_date terdekat >= hari ini untuk pesan
// "periksa kamar berikutnya".
func (s *GateService) fillNextWindow(res *GateResult, configs []model.InspectionWindowModel, now, today time.Time) {
	type cand struct {
		date time.Time
		cfg  *model.InspectionWindowModel
	}
	var cands []cand

	nowSec := dbtime.From(now).SecondsOfDay()
	for i := range configs {
		c := &configs[i]
		if c.InspectionWindowSpecificDate == nil {
			continue
		}
		d := dbtime.DateOnly(*c.InspectionWindowSpecificDate, s.Loc)
		if d.Before(today) {
			continue
		}
		// jadwal hari ini yang jendelanya sudah lewat tidak dihitung
		if d.Equal(today) && c.InspectionWindowEndTime.SecondsOfDay() < nowSec {
			continue
		}
		cands = append(cands, cand{date: d, cfg: c})
	}
	if len(cands) == 0 {
		return
	}
	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].date.Equal(cands[j].date) {
			return cands[i].date.Before(cands[j].date)
		}
		return cands[i].cfg.InspectionWindowStartTime.SecondsOfDay() < cands[j].cfg.InspectionWindowStartTime.SecondsOfDay()
	})

	next := cands[0]
	res.NextDate = &next.date
	res.NextConfig = next.cfg
	res.Reason = fmt.Sprintf("%s. Jadwal berikutnya: %s pukul %s",
		res.Reason,
		next.date.Format("2006-01-02"),
		next.cfg.InspectionWindowStartTime.Format("15:04"))
}
