package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

// ErrCorrupt is returned when a day file cannot be decoded.
var ErrCorrupt = errors.New("corrupt day file")

// HomeEnv overrides the data directory.
const HomeEnv = "ELD_HOME"

// UpsertResult tells what UpsertExternal did.
type UpsertResult int

const (
	Unchanged UpsertResult = iota
	Inserted
	Updated
)

// BaseDir returns the root data directory ($ELD_HOME or ~/.eld).
func BaseDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".eld"), nil
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func LoadDay(base string, t time.Time) (model.DayFile, error) {
	path := dayFilePath(base, t)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: t.Format("2006-01-02"), Events: []model.Event{}}, nil
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, fmt.Errorf("%w %s (backed up to %s): %v", ErrCorrupt, path, backupPath, err)
	}
	if df.Events == nil {
		df.Events = []model.Event{}
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func SaveDay(base string, t time.Time, df model.DayFile) error {
	path := dayFilePath(base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

func sortEvents(events []model.Event) {
	slices.SortStableFunc(events, func(a, b model.Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// AppendEvent replaces the event with the same ID or inserts it, keeping the
// day's events in timestamp order.
func AppendEvent(base string, day time.Time, ev model.Event) error {
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(df.Events, func(e model.Event) bool { return e.ID == ev.ID })
	if i >= 0 {
		df.Events[i] = ev
	} else {
		df.Events = append(df.Events, ev)
	}
	sortEvents(df.Events)
	return SaveDay(base, day, df)
}

// SameContent reports whether two events carry the same duty change. IDs,
// sources and external IDs are not compared.
func SameContent(a, b model.Event) bool {
	return a.Timestamp.Equal(b.Timestamp) && a.Status == b.Status &&
		a.Activity == b.Activity && a.City == b.City && a.State == b.State
}

// classifyExternal finds the event carrying ev.ExternalID in events and tells
// what an upsert of ev would do. The index is -1 when ev would be inserted.
func classifyExternal(events []model.Event, ev model.Event) (int, UpsertResult) {
	i := slices.IndexFunc(events, func(e model.Event) bool { return e.ExternalID == ev.ExternalID })
	switch {
	case i < 0:
		return -1, Inserted
	case SameContent(events[i], ev):
		return i, Unchanged
	default:
		return i, Updated
	}
}

// PlanExternal reports what UpsertExternal would do without writing.
func PlanExternal(base string, day time.Time, ev model.Event) (UpsertResult, error) {
	df, err := LoadDay(base, day)
	if err != nil {
		return Unchanged, err
	}
	_, res := classifyExternal(df.Events, ev)
	return res, nil
}

// UpsertExternal inserts or updates the event carrying ev.ExternalID. An
// existing event keeps its ID.
func UpsertExternal(base string, day time.Time, ev model.Event) (UpsertResult, error) {
	if ev.ExternalID == "" {
		return Unchanged, fmt.Errorf("event has no external id")
	}
	df, err := LoadDay(base, day)
	if err != nil {
		return Unchanged, err
	}

	i, res := classifyExternal(df.Events, ev)
	switch res {
	case Unchanged:
		return Unchanged, nil
	case Updated:
		ev.ID = df.Events[i].ID
		df.Events[i] = ev
	default:
		df.Events = append(df.Events, ev)
	}
	sortEvents(df.Events)
	if err := SaveDay(base, day, df); err != nil {
		return Unchanged, err
	}
	return res, nil
}

// ExternalDays maps the external IDs stored in [from, to] inclusive to the
// day file holding them.
func ExternalDays(base string, from, to time.Time) (map[string]time.Time, error) {
	out := map[string]time.Time{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		for _, e := range df.Events {
			if e.ExternalID != "" {
				out[e.ExternalID] = d
			}
		}
	}
	return out, nil
}

// RemoveExternal deletes the event carrying extID from the day file. It
// reports whether anything was removed.
func RemoveExternal(base string, day time.Time, extID string) (bool, error) {
	df, err := LoadDay(base, day)
	if err != nil {
		return false, err
	}
	n := len(df.Events)
	df.Events = slices.DeleteFunc(df.Events, func(e model.Event) bool { return e.ExternalID == extID })
	if len(df.Events) == n {
		return false, nil
	}
	return true, SaveDay(base, day, df)
}

// AppendInspection replaces the inspection with the same ID or inserts it,
// keeping the day's inspections in time order.
func AppendInspection(base string, day time.Time, in model.Inspection) error {
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(df.Inspections, func(x model.Inspection) bool { return x.ID == in.ID })
	if i >= 0 {
		df.Inspections[i] = in
	} else {
		df.Inspections = append(df.Inspections, in)
	}
	slices.SortStableFunc(df.Inspections, func(a, b model.Inspection) int {
		return a.PerformedAt.Compare(b.PerformedAt)
	})
	return SaveDay(base, day, df)
}

// LoadInspections returns the inspections in [from, to] inclusive, oldest first.
func LoadInspections(base string, from, to time.Time) ([]model.Inspection, error) {
	var out []model.Inspection
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		out = append(out, df.Inspections...)
	}
	return out, nil
}

// LoadRange loads all events in [from, to] inclusive, oldest first.
func LoadRange(base string, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		events = append(events, df.Events...)
	}
	sortEvents(events)
	return events, nil
}

// LastEventBefore returns the most recent event strictly before t, looking
// back at most lookback days. It returns nil when there is none.
func LastEventBefore(base string, t time.Time, lookback int) (*model.Event, error) {
	for i := 0; i <= lookback; i++ {
		df, err := LoadDay(base, t.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		for j := len(df.Events) - 1; j >= 0; j-- {
			if df.Events[j].Timestamp.Before(t) {
				ev := df.Events[j]
				return &ev, nil
			}
		}
	}
	return nil, nil
}

// SaveDailyLog stores the log of the given day alongside its events.
func SaveDailyLog(base string, day time.Time, log model.DailyLog) error {
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	df.Log = &log
	return SaveDay(base, day, df)
}

// LoadDailyLogs returns the stored logs in [from, to] inclusive. Days without
// a log are left out.
func LoadDailyLogs(base string, from, to time.Time) ([]model.DailyLog, error) {
	var logs []model.DailyLog
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		if df.Log != nil {
			logs = append(logs, *df.Log)
		}
	}
	return logs, nil
}
