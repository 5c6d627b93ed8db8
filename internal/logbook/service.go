// Package logbook records duty status changes and evaluates them against the
// hours-of-service rules. Both the CLI and the HTTP API go through it.
package logbook

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/hos"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/observability"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/storage"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/validate"
)

// ErrValidation marks errors caused by bad input.
var ErrValidation = errors.New("invalid input")

// Seed policies.
const (
	SeedFirstEntry = "first_entry"
	SeedPriorEvent = "prior_event"
)

// cycleLookback is how many days back the prior-status lookup and Current
// search for an event.
const cycleLookback = 7

// historyDays is how far before a range Summary searches for the day keys
// that precede it in the rolling 70-hour window.
const historyDays = 28

// MaxRangeDays caps the number of days a single query may span.
const MaxRangeDays = 366

// Options configures a Service.
type Options struct {
	Base       string
	Location   *time.Location
	SeedPolicy string
	Now        func() time.Time
	Logger     *logger.Logger
	Metrics    *observability.Metrics
}

// Service is the logbook of one driver.
type Service struct {
	base    string
	loc     *time.Location
	seed    string
	now     func() time.Time
	log     *logger.Logger
	metrics *observability.Metrics
}

// RecordInput is a duty status change to store.
type RecordInput struct {
	Status    string     `json:"status"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	City      string     `json:"city,omitempty"`
	State     string     `json:"state,omitempty"`
	Activity  string     `json:"activity,omitempty"`
	Source    string     `json:"-"`
}

// InspectInput is a vehicle inspection to store.
type InspectInput struct {
	Kind              string         `json:"kind"`
	PerformedAt       *time.Time     `json:"performed_at,omitempty"`
	Defects           []model.Defect `json:"defects,omitempty"`
	SignatureDriver   string         `json:"signature_driver"`
	SignatureMechanic string         `json:"signature_mechanic,omitempty"`
	Notes             string         `json:"notes,omitempty"`
}

// DayTotals is the duty breakdown of one day.
type DayTotals struct {
	Day    string          `json:"day"`
	Totals hos.DailyTotals `json:"totals"`
}

// Summary is the HOS evaluation of a day range.
type Summary struct {
	Daily      []DayTotals     `json:"daily"`
	Violations []hos.Violation `json:"violations"`
}

// New returns a Service. Zero options fall back to UTC, first-entry seeding,
// the wall clock and the root logger.
func New(opt Options) *Service {
	s := &Service{
		base:    opt.Base,
		loc:     opt.Location,
		seed:    opt.SeedPolicy,
		now:     opt.Now,
		log:     opt.Logger,
		metrics: opt.Metrics,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.seed == "" {
		s.seed = SeedFirstEntry
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Named("logbook")
	}
	return s
}

// Location is the time zone log days are cut in.
func (s *Service) Location() *time.Location { return s.loc }

// Now returns the current time in the logbook's zone.
func (s *Service) Now() time.Time { return s.now().In(s.loc) }

// Record validates and stores a status change.
func (s *Service) Record(ctx context.Context, in RecordInput) (model.Event, error) {
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}
	status, err := model.ParseStatus(in.Status)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ts := s.Now()
	if in.Timestamp != nil {
		ts = in.Timestamp.In(s.loc)
	}
	source := in.Source
	if source == "" {
		source = model.SourceManual
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Event{}, fmt.Errorf("generating id: %w", err)
	}
	ev := model.Event{
		ID:        id.String(),
		Timestamp: ts,
		Status:    status,
		City:      in.City,
		State:     in.State,
		Activity:  in.Activity,
		Source:    source,
	}
	if err := validate.Struct(ev); err != nil {
		return model.Event{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := storage.AppendEvent(s.base, ts, ev); err != nil {
		return model.Event{}, err
	}
	s.metrics.IncEvent(string(ev.Status), ev.Source)
	s.log.Debug().Str("id", ev.ID).Str("status", string(ev.Status)).Time("at", ts).Msg("event recorded")
	return ev, nil
}

// Events returns the events of the local days from..to, oldest first.
func (s *Service) Events(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end, err := s.days(from, to)
	if err != nil {
		return nil, err
	}
	return storage.LoadRange(s.base, start, end)
}

// Current returns the latest event at or before now, or nil when nothing was
// recorded within the last cycle.
func (s *Service) Current(ctx context.Context) (*model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return storage.LastEventBefore(s.base, s.Now().Add(time.Nanosecond), cycleLookback)
}

// Summary computes daily totals and violations for the local days from..to.
// Days without events are left out of Daily.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	started := time.Now()
	defer func() { s.metrics.ObserveSummary(time.Since(started)) }()

	start, end, err := s.days(from, to)
	if err != nil {
		return Summary{}, err
	}
	loadStart := start.AddDate(0, 0, -historyDays)
	events, err := storage.LoadRange(s.base, loadStart, end)
	if err != nil {
		return Summary{}, err
	}
	entries := entriesOf(events)
	engine, err := s.engine(loadStart, entries)
	if err != nil {
		return Summary{}, err
	}

	first, last := start.Format(hos.DayLayout), end.Format(hos.DayLayout)
	byDay := hos.GroupByDay(entries, s.loc)
	trimHistory(byDay, first, hos.CycleDays-1)
	out := Summary{Daily: []DayTotals{}, Violations: []hos.Violation{}}
	for _, day := range timecalc.Days(start, end) {
		if len(byDay[day]) == 0 {
			continue
		}
		out.Daily = append(out.Daily, DayTotals{Day: day, Totals: engine.CalculateDailyTotals(byDay[day], day)})
	}

	for _, v := range engine.DetectViolations(byDay) {
		if v.Day < first || v.Day > last {
			continue
		}
		out.Violations = append(out.Violations, v)
		s.metrics.IncViolation(string(v.Code))
	}

	s.log.Debug().
		Str("from", first).Str("to", last).
		Int("events", len(events)).Int("violations", len(out.Violations)).
		Msg("hos summary")
	return out, nil
}

// Submit certifies a day: its totals are computed and stored as a submitted
// daily log. Submitting again refreshes totals and timestamps.
func (s *Service) Submit(ctx context.Context, day string) (model.DailyLog, error) {
	if err := ctx.Err(); err != nil {
		return model.DailyLog{}, err
	}
	d, err := timecalc.ParseDay(day, s.loc)
	if err != nil {
		return model.DailyLog{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	key := d.Format(hos.DayLayout)

	events, err := storage.LoadRange(s.base, d, d)
	if err != nil {
		return model.DailyLog{}, err
	}
	entries := entriesOf(events)
	engine, err := s.engine(d, entries)
	if err != nil {
		return model.DailyLog{}, err
	}
	totals := engine.CalculateDailyTotals(entries, key)

	now := s.Now()
	log := model.DailyLog{
		Day:          key,
		TotalOff:     totals.Off,
		TotalSleeper: totals.Sleeper,
		TotalDriving: totals.Driving,
		TotalOnDuty:  totals.OnDuty,
		Submitted:    true,
		SubmittedAt:  &now,
		UpdatedAt:    now,
	}
	if err := storage.SaveDailyLog(s.base, d, log); err != nil {
		return model.DailyLog{}, err
	}
	s.metrics.IncSubmitted()
	s.log.Info().Str("day", key).Str("driving", totals.Driving.StringFixed(2)).Msg("daily log submitted")
	return log, nil
}

// DailyLogs returns the stored logs of the local days from..to.
func (s *Service) DailyLogs(ctx context.Context, from, to time.Time) ([]model.DailyLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end, err := s.days(from, to)
	if err != nil {
		return nil, err
	}
	return storage.LoadDailyLogs(s.base, start, end)
}

// Inspect validates and stores a vehicle inspection under its local day.
func (s *Service) Inspect(ctx context.Context, in InspectInput) (model.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return model.Inspection{}, err
	}
	kind, err := model.ParseInspectionKind(in.Kind)
	if err != nil {
		return model.Inspection{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.Now()
	at := now
	if in.PerformedAt != nil {
		at = in.PerformedAt.In(s.loc)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return model.Inspection{}, fmt.Errorf("generating id: %w", err)
	}
	defects := in.Defects
	if defects == nil {
		defects = []model.Defect{}
	}
	rec := model.Inspection{
		ID:                id.String(),
		Kind:              kind,
		PerformedAt:       at,
		Defects:           defects,
		SignatureDriver:   strings.TrimSpace(in.SignatureDriver),
		SignatureMechanic: strings.TrimSpace(in.SignatureMechanic),
		Notes:             in.Notes,
		CreatedAt:         now,
	}
	if err := validate.Struct(rec); err != nil {
		return model.Inspection{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := storage.AppendInspection(s.base, at, rec); err != nil {
		return model.Inspection{}, err
	}
	s.metrics.IncInspection(string(rec.Kind), len(rec.Defects) > 0)
	s.log.Debug().Str("id", rec.ID).Str("kind", string(rec.Kind)).Int("defects", len(rec.Defects)).Msg("inspection recorded")
	return rec, nil
}

// Inspections returns the inspections of the local days from..to, newest first.
func (s *Service) Inspections(ctx context.Context, from, to time.Time) ([]model.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end, err := s.days(from, to)
	if err != nil {
		return nil, err
	}
	out, err := storage.LoadInspections(s.base, start, end)
	if err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

// ParseRange turns optional from/to day keys into a range. Missing bounds
// default to today, a missing to defaults to from.
func (s *Service) ParseRange(from, to string) (time.Time, time.Time, error) {
	today := timecalc.StartOfDay(s.Now())
	start, end := today, today
	var err error
	if from != "" {
		if start, err = timecalc.ParseDay(from, s.loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		end = start
	}
	if to != "" {
		if end, err = timecalc.ParseDay(to, s.loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: --to %s is before --from %s", ErrValidation,
			end.Format(hos.DayLayout), start.Format(hos.DayLayout))
	}
	if err := checkSpan(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// checkSpan rejects ranges longer than MaxRangeDays.
func checkSpan(start, end time.Time) error {
	if end.After(start.AddDate(0, 0, MaxRangeDays-1)) {
		return fmt.Errorf("%w: range %s..%s spans more than %d days", ErrValidation,
			start.Format(hos.DayLayout), end.Format(hos.DayLayout), MaxRangeDays)
	}
	return nil
}

// days normalises a range to local midnights.
func (s *Service) days(from, to time.Time) (time.Time, time.Time, error) {
	start := timecalc.StartOfDay(from.In(s.loc))
	end := timecalc.StartOfDay(to.In(s.loc))
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range ends before it starts", ErrValidation)
	}
	if err := checkSpan(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// trimHistory drops the day keys before first except the keep most recent
// ones, which are all the rolling cycle window can reach.
func trimHistory(byDay map[string][]hos.Entry, first string, keep int) {
	var before []string
	for day := range byDay {
		if day < first {
			before = append(before, day)
		}
	}
	if len(before) <= keep {
		return
	}
	slices.Sort(before)
	for _, day := range before[:len(before)-keep] {
		delete(byDay, day)
	}
}

// engine builds the HOS engine for entries loaded from loadStart on. The
// prior-event policy also needs the last event before loadStart.
func (s *Service) engine(loadStart time.Time, entries []hos.Entry) (*hos.Engine, error) {
	opts := []hos.Option{hos.WithLocation(s.loc)}
	if s.seed == SeedPriorEvent {
		history := entries
		prior, err := storage.LastEventBefore(s.base, loadStart, cycleLookback)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			history = append([]hos.Entry{{Timestamp: prior.Timestamp, Status: prior.Status}}, entries...)
		}
		opts = append(opts, hos.WithSeed(hos.SeedFromHistory(history)))
	}
	return hos.New(opts...), nil
}

func entriesOf(events []model.Event) []hos.Entry {
	out := make([]hos.Entry, 0, len(events))
	for _, ev := range events {
		out = append(out, hos.Entry{Timestamp: ev.Timestamp, Status: ev.Status})
	}
	return out
}
