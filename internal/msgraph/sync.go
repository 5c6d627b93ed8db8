package msgraph

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/storage"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/validate"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base   string
	DryRun bool
	// Location picks the day file events are stored in. Nil means UTC.
	Location *time.Location
	// Out receives progress lines. Nil means stdout.
	Out io.Writer
	// From and To are the local days being synced. Imported events found on
	// another day in this range are moved to the day their block now falls on.
	// Zero values disable the lookup.
	From, To time.Time
}

// External ID suffixes of the two events a calendar block becomes.
const (
	startSuffix = "#start"
	endSuffix   = "#end"
)

// subjectKeywords are matched against lower-cased subjects in order.
var subjectKeywords = []struct {
	words  []string
	status model.Status
}{
	{[]string{"sleeper"}, model.StatusSleeper},
	{[]string{"off duty", "off-duty"}, model.StatusOff},
	{[]string{"on duty", "on-duty"}, model.StatusOnDuty},
	{[]string{"driving", "drive"}, model.StatusDriving},
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc, err := timecalc.ParseZone(tz)
	if err != nil {
		loc = time.UTC
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.IsAllDay {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.ShowAs == "free" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// StatusForEvent maps a calendar block to a duty status. Categories named
// after a status win over subject keywords.
func StatusForEvent(event CalendarEvent) (model.Status, bool) {
	for _, c := range event.Categories {
		if s, err := model.ParseStatus(c); err == nil {
			return s, true
		}
	}
	subject := strings.ToLower(event.Subject)
	for _, kw := range subjectKeywords {
		for _, w := range kw.words {
			if strings.Contains(subject, w) {
				return kw.status, true
			}
		}
	}
	return "", false
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// MapEventToEvents converts a calendar block into a status change at its
// start and an OFF change at its end.
func MapEventToEvents(event CalendarEvent, timezone string) (start, end model.Event, err error) {
	status, ok := StatusForEvent(event)
	if !ok {
		return model.Event{}, model.Event{}, fmt.Errorf("no duty status for %q", event.Subject)
	}
	startTime, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.Event{}, model.Event{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.Event{}, model.Event{}, fmt.Errorf("parsing end time: %w", err)
	}
	if !endTime.After(startTime) {
		return model.Event{}, model.Event{}, fmt.Errorf("block %q ends before it starts", event.Subject)
	}

	start = model.Event{
		Timestamp:  startTime,
		Status:     status,
		City:       clip(event.Location.DisplayName, 128),
		Activity:   clip(event.Subject, 255),
		Source:     model.SourceOutlook,
		ExternalID: event.ID + startSuffix,
	}
	end = model.Event{
		Timestamp:  endTime,
		Status:     model.StatusOff,
		Activity:   clip("End of "+event.Subject, 255),
		Source:     model.SourceOutlook,
		ExternalID: event.ID + endSuffix,
	}
	return start, end, nil
}

// SyncEvents processes a slice of Graph events and persists them to storage.
// It prints progress to opts.Out and returns a SyncResult.
func SyncEvents(events []CalendarEvent, opts SyncOptions, timezone string) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	type block struct {
		subject    string
		start, end model.Event
	}
	var blocks []block
	starts := map[int64]bool{}
	for _, event := range events {
		if shouldSkip(event) {
			continue
		}
		if _, ok := StatusForEvent(event); !ok {
			fmt.Fprintf(out, "  – Skipped:  %s (no duty status)\n", event.Subject)
			result.Skipped++
			continue
		}
		start, end, err := MapEventToEvents(event, timezone)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}
		blocks = append(blocks, block{subject: event.Subject, start: start, end: end})
		starts[start.Timestamp.UnixNano()] = true
	}

	var known map[string]time.Time
	if !opts.From.IsZero() && !opts.To.IsZero() {
		var err error
		known, err = storage.ExternalDays(opts.Base, timecalc.StartOfDay(opts.From.In(loc)), timecalc.StartOfDay(opts.To.In(loc)))
		if err != nil {
			return result, err
		}
	}

	for _, b := range blocks {
		evs := []model.Event{b.start}
		// Back-to-back blocks: the next block's start replaces this end.
		if !starts[b.end.Timestamp.UnixNano()] {
			evs = append(evs, b.end)
		}

		for _, ev := range evs {
			ev.Timestamp = ev.Timestamp.In(loc)
			id, err := uuid.NewV7()
			if err != nil {
				return result, fmt.Errorf("generating id: %w", err)
			}
			ev.ID = id.String()
			if err := validate.Struct(ev); err != nil {
				fmt.Fprintf(out, "  ! Invalid event %q: %v\n", b.subject, err)
				result.Errors++
				continue
			}

			moved := false
			if day, ok := known[ev.ExternalID]; ok && day.Format(timecalc.DayLayout) != ev.Timestamp.Format(timecalc.DayLayout) {
				moved = true
				if !opts.DryRun {
					if _, err := storage.RemoveExternal(opts.Base, day, ev.ExternalID); err != nil {
						fmt.Fprintf(out, "  ! Error moving %q: %v\n", b.subject, err)
						result.Errors++
						continue
					}
				}
			}

			var res storage.UpsertResult
			if opts.DryRun {
				res, err = storage.PlanExternal(opts.Base, ev.Timestamp, ev)
			} else {
				res, err = storage.UpsertExternal(opts.Base, ev.Timestamp, ev)
			}
			if moved && err == nil {
				res = storage.Updated
			}
			if err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", b.subject, err)
				result.Errors++
				continue
			}

			label := fmt.Sprintf("%s %s at %s", b.subject, ev.Status, ev.Timestamp.Format("2006-01-02 15:04"))
			switch res {
			case storage.Inserted:
				fmt.Fprintf(out, "  ✓ Imported: %s\n", label)
				result.Imported++
			case storage.Updated:
				fmt.Fprintf(out, "  ↑ Updated:  %s\n", label)
				result.Updated++
			default:
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", label)
				result.Skipped++
			}
		}
	}

	return result, nil
}
