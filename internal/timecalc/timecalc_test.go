package timecalc_test

import (
	"testing"
	"time"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDurationHHMMSS(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDurationHHMMSS(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestCycleRange(t *testing.T) {
	ts := time.Date(2026, 3, 8, 15, 0, 0, 0, time.UTC)
	from, to := timecalc.CycleRange(ts)
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("CycleRange from = %v, want %v", from, want)
	}
	if want := time.Date(2026, 3, 8, 23, 59, 59, 0, time.UTC); !to.Equal(want) {
		t.Errorf("CycleRange to = %v, want %v", to, want)
	}
	if got := len(timecalc.Days(from, to)); got != 8 {
		t.Errorf("CycleRange spans %d days, want 8", got)
	}
}

func TestDayKey(t *testing.T) {
	ts := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	pacific := time.FixedZone("UTC-08:00", -8*3600)
	if got := timecalc.DayKey(ts, pacific); got != "2026-03-01" {
		t.Errorf("DayKey = %q, want %q", got, "2026-03-01")
	}
	if got := timecalc.DayKey(ts, time.UTC); got != "2026-03-02" {
		t.Errorf("DayKey = %q, want %q", got, "2026-03-02")
	}
}

func TestParseDay(t *testing.T) {
	pacific := time.FixedZone("UTC-08:00", -8*3600)
	got, err := timecalc.ParseDay("2026-03-02", pacific)
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if want := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseDay = %v, want %v", got, want)
	}
	if _, err := timecalc.ParseDay("2026-3-2", time.UTC); err == nil {
		t.Error("ParseDay: expected error for unpadded day")
	}
}

func TestDays(t *testing.T) {
	from := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)
	got := timecalc.Days(from, to)
	want := []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}
	if len(got) != len(want) {
		t.Fatalf("Days = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Days[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		in         string
		wantOffset int
	}{
		{"", 0},
		{"UTC", 0},
		{"UTC-08:00", -8 * 3600},
		{"UTC+05:30", 5*3600 + 30*60},
		{"utc-5", -5 * 3600},
	}
	ref := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		loc, err := timecalc.ParseZone(tt.in)
		if err != nil {
			t.Errorf("ParseZone(%q): %v", tt.in, err)
			continue
		}
		if _, off := ref.In(loc).Zone(); off != tt.wantOffset {
			t.Errorf("ParseZone(%q) offset = %d, want %d", tt.in, off, tt.wantOffset)
		}
	}

	for _, bad := range []string{
		"UTC+", "UTC08:00", "UTC+25:00", "Mars/Olympus",
		"UTC+-3", "UTC--5", "UTC-05:-10", "UTC-05:+10", "UTC+05:", "UTC+ 5",
	} {
		if _, err := timecalc.ParseZone(bad); err == nil {
			t.Errorf("ParseZone(%q): expected error", bad)
		}
	}
}

func TestParseAt(t *testing.T) {
	now := time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)

	got, err := timecalc.ParseAt("06:15", now)
	if err != nil {
		t.Fatalf("ParseAt: %v", err)
	}
	if want := time.Date(2026, 3, 2, 6, 15, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseAt clock = %v, want %v", got, want)
	}

	got, err = timecalc.ParseAt("2026-03-01T22:00:00-08:00", now)
	if err != nil {
		t.Fatalf("ParseAt: %v", err)
	}
	if want := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseAt RFC3339 = %v, want %v", got, want)
	}

	if _, err := timecalc.ParseAt("6pm", now); err == nil {
		t.Error("ParseAt: expected error")
	}
}
