package hos

import (
	"time"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

// dayWindow returns [start, end) of day in the engine's location.
func (e *Engine) dayWindow(day string) (time.Time, time.Time, bool) {
	start, err := time.ParseInLocation(DayLayout, day, e.loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, start.AddDate(0, 0, 1), true
}

// daySequence clamps entries to the day window, seeds the start of the day
// and closes the last interval at the end of the day. It returns nil when no
// entry falls inside the window.
func (e *Engine) daySequence(entries []Entry, start, end time.Time) []Entry {
	var seq []Entry
	for _, en := range sortedCopy(entries) {
		if en.Timestamp.Before(start) {
			continue
		}
		if !en.Timestamp.Before(end) {
			break
		}
		seq = append(seq, en)
	}
	if len(seq) == 0 {
		return nil
	}

	if seq[0].Timestamp.After(start) {
		seed := Entry{Timestamp: start, Status: e.seed(start, seq[0])}
		seq = append([]Entry{seed}, seq...)
	}
	return append(seq, Entry{Timestamp: end, Status: seq[len(seq)-1].Status})
}

// CalculateDailyTotals returns the hours spent in each status during day
// (YYYY-MM-DD). Entries need not be sorted. A day without entries, or an
// unparseable day key, is reported as 24 hours OFF.
func (e *Engine) CalculateDailyTotals(entries []Entry, day string) DailyTotals {
	start, end, ok := e.dayWindow(day)
	if !ok {
		return offDay()
	}
	seq := e.daySequence(entries, start, end)
	if seq == nil {
		return offDay()
	}
	return totalsOf(seq)
}

func totalsOf(seq []Entry) DailyTotals {
	minutes := make(map[model.Status]int64, 4)
	for i := 0; i < len(seq)-1; i++ {
		minutes[seq[i].Status] += wholeMinutes(seq[i+1].Timestamp.Sub(seq[i].Timestamp))
	}
	return DailyTotals{
		Off:     roundHours(minutes[model.StatusOff]),
		Sleeper: roundHours(minutes[model.StatusSleeper]),
		Driving: roundHours(minutes[model.StatusDriving]),
		OnDuty:  roundHours(minutes[model.StatusOnDuty]),
	}
}

func offDay() DailyTotals {
	return DailyTotals{
		Off:     roundHours(24 * 60),
		Sleeper: roundHours(0),
		Driving: roundHours(0),
		OnDuty:  roundHours(0),
	}
}
