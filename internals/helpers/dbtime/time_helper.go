// file: internals/helpers/dbtime/time_helper.go
package dbtime

import "time"

// DateOnly memotong t ke tengah malam pada zona loc.
// Dipakai untuk kunci tanggal ledger & perbandingan "hari ini".
func DateOnly(t time.Time, loc *time.Location) time.Time {
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// SameDay: apakah a dan b jatuh pada tanggal kalender yang sama di zona loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	aa, bb := a.In(loc), b.In(loc)
	return aa.Year() == bb.Year() && aa.Month() == bb.Month() && aa.Day() == bb.Day()
}

// WeekdayCode: MON..SUN sesuai format kolom recurring_weekdays.
func WeekdayCode(t time.Time, loc *time.Location) string {
	switch t.In(loc).Weekday() {
	case time.Monday:
		return "MON"
	case time.Tuesday:
		return "TUE"
	case time.Wednesday:
		return "WED"
	case time.Thursday:
		return "THU"
	case time.Friday:
		return "FRI"
	case time.Saturday:
		return "SAT"
	default:
		return "SUN"
	}
}
