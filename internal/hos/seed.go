package hos

import (
	"slices"
	"time"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

// SeedFunc returns the status in effect at windowStart, given the first entry
// that falls inside the day.
type SeedFunc func(windowStart time.Time, first Entry) model.Status

// SeedFirstEntry assumes the day started in the status of its first entry.
func SeedFirstEntry(_ time.Time, first Entry) model.Status {
	return first.Status
}

// SeedFromHistory looks up the most recent entry strictly before the window
// start in history. Days with no earlier entry start OFF.
func SeedFromHistory(history []Entry) SeedFunc {
	sorted := sortedCopy(history)
	return func(windowStart time.Time, _ Entry) model.Status {
		i, _ := slices.BinarySearchFunc(sorted, windowStart, func(e Entry, t time.Time) int {
			return e.Timestamp.Compare(t)
		})
		if i == 0 {
			return model.StatusOff
		}
		return sorted[i-1].Status
	}
}

func sortedCopy(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}
