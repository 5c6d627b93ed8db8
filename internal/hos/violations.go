package hos

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

// dayState is the rolling state of one day's violation scan.
type dayState struct {
	windowStart          *time.Time
	maxWindowSpan        int64
	drivingSinceReset    int64
	maxDrivingSinceReset int64
	drivingSinceBreak    int64
	missedBreak          bool
}

func (st *dayState) step(from, to Entry) {
	minutes := wholeMinutes(to.Timestamp.Sub(from.Timestamp))

	if from.Status.Resting() && minutes >= resetMinutes {
		st.windowStart = nil
		st.drivingSinceReset = 0
		st.drivingSinceBreak = 0
	}

	if from.Status.OnDuty() && st.windowStart == nil {
		t := from.Timestamp
		st.windowStart = &t
	}
	if st.windowStart != nil {
		st.maxWindowSpan = max(st.maxWindowSpan, wholeMinutes(to.Timestamp.Sub(*st.windowStart)))
	}

	switch {
	case from.Status == model.StatusDriving:
		st.drivingSinceReset += minutes
		st.maxDrivingSinceReset = max(st.maxDrivingSinceReset, st.drivingSinceReset)
		st.drivingSinceBreak += minutes
	case from.Status.Resting() && minutes >= breakMinutes:
		st.drivingSinceBreak = 0
	}

	if st.drivingSinceBreak > drivingBeforeBreak {
		st.missedBreak = true
	}
}

func (st *dayState) violations(day string) []Violation {
	if st.drivingSinceBreak >= drivingBeforeBreak {
		st.missedBreak = true
	}

	var out []Violation
	if st.maxDrivingSinceReset > drivingLimit {
		out = append(out, Violation{
			Code:    Code11H,
			Message: fmt.Sprintf("Driving exceeds 11 hours (%sh)", hoursText(roundHours(st.maxDrivingSinceReset))),
			Day:     day,
		})
	}
	if st.maxWindowSpan > windowLimit {
		out = append(out, Violation{
			Code:    Code14H,
			Message: fmt.Sprintf("On-duty window exceeds 14 hours (%sh)", hoursText(roundHours(st.maxWindowSpan))),
			Day:     day,
		})
	}
	if st.missedBreak {
		out = append(out, Violation{
			Code:    Code30M,
			Message: "30-min break required within 8 hours of driving",
			Day:     day,
		})
	}
	return out
}

// DetectViolations evaluates every day of entriesByDay (keyed YYYY-MM-DD)
// independently for the 11-hour, 14-hour and 30-minute rules, then checks the
// rolling 70-hour/8-day cycle. Per-day violations come first in day order,
// followed by cycle violations. Days without entries inside their window and
// unparseable keys are skipped.
func (e *Engine) DetectViolations(entriesByDay map[string][]Entry) []Violation {
	days := make([]string, 0, len(entriesByDay))
	for day := range entriesByDay {
		days = append(days, day)
	}
	slices.Sort(days)

	var out []Violation
	totals := make(map[string]DailyTotals, len(days))
	for _, day := range days {
		start, end, ok := e.dayWindow(day)
		if !ok {
			continue
		}
		seq := e.daySequence(entriesByDay[day], start, end)
		if seq == nil {
			continue
		}
		totals[day] = totalsOf(seq)

		var st dayState
		for i := 0; i < len(seq)-1; i++ {
			st.step(seq[i], seq[i+1])
		}
		out = append(out, st.violations(day)...)
	}

	return append(out, e.cycleViolations(days, totals)...)
}

// cycleViolations flags every day whose trailing window of up to eight day
// keys (the day and the seven keys before it in sorted order) adds up to more
// than 70 on-duty hours. Keys that were skipped still take a slot and count
// as zero; gaps between keys are not filled in.
func (e *Engine) cycleViolations(days []string, totals map[string]DailyTotals) []Violation {
	var out []Violation
	for i, day := range days {
		if _, _, ok := e.dayWindow(day); !ok {
			continue
		}
		sum := decimal.Zero
		for _, d := range days[max(0, i-CycleDays+1) : i+1] {
			if t, ok := totals[d]; ok {
				sum = sum.Add(t.OnDutyHours())
			}
		}
		if sum.GreaterThan(cycleLimitHours) {
			out = append(out, Violation{
				Code:    Code70In8,
				Message: fmt.Sprintf("70-hour/8-day limit exceeded (%sh)", hoursText(sum)),
				Day:     day,
			})
		}
	}
	return out
}
