package hos

import "time"

// GroupByDay buckets entries by their calendar day in loc, the mapping
// DetectViolations expects. Entries keep their input order within a day.
func GroupByDay(entries []Entry, loc *time.Location) map[string][]Entry {
	if loc == nil {
		loc = time.UTC
	}
	out := make(map[string][]Entry)
	for _, en := range entries {
		day := en.Timestamp.In(loc).Format(DayLayout)
		out[day] = append(out[day], en)
	}
	return out
}
