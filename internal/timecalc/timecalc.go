package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the layout of day keys and --date flags.
const DayLayout = "2006-01-02"

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := EndOfDay(monday.AddDate(0, 0, 6))
	return monday, sunday
}

// CycleRange returns the eight days ending with the day of t, the window of
// the 70-hour/8-day rule.
func CycleRange(t time.Time) (time.Time, time.Time) {
	return StartOfDay(t.AddDate(0, 0, -7)), EndOfDay(t)
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// DayKey returns the YYYY-MM-DD key of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD day as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// Days returns the day keys from from to to inclusive.
func Days(from, to time.Time) []string {
	var out []string
	for d := StartOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DayLayout))
	}
	return out
}

// ParseZone resolves a driver time zone. It accepts an IANA name
// ("America/Chicago") or a fixed offset in the form "UTC-08:00". An empty
// value means UTC.
func ParseZone(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "UTC") {
		return time.UTC, nil
	}
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), "UTC"); ok {
		offset, err := parseOffset(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid time zone %q: %w", s, err)
		}
		return time.FixedZone(strings.ToUpper(s), offset), nil
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", s, err)
	}
	return loc, nil
}

// parseOffset parses "+05:30" or "-8" into seconds east of UTC.
func parseOffset(s string) (int, error) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, fmt.Errorf("offset must start with + or -")
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	hh, mm, hasMinutes := strings.Cut(s[1:], ":")
	hours, err := atoiDigits(hh)
	if err != nil || hours > 14 {
		return 0, fmt.Errorf("bad hours %q", hh)
	}
	minutes := 0
	if hasMinutes {
		minutes, err = atoiDigits(mm)
		if err != nil || minutes > 59 {
			return 0, fmt.Errorf("bad minutes %q", mm)
		}
	}
	return sign * (hours*3600 + minutes*60), nil
}

// atoiDigits is strconv.Atoi restricted to plain digits; signs are rejected.
func atoiDigits(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return strconv.Atoi(s)
}

// ParseAt parses a point in time given either as RFC3339 or as a wall clock
// time ("15:04") on the day of now.
func ParseAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want HH:MM or RFC3339)", s)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}
