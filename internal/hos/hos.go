// Package hos computes Hours-of-Service daily duty totals and detects
// violations of the property-carrying driver limits: the 11-hour driving
// limit, the 14-hour on-duty window, the 30-minute break requirement and the
// 70-hour/8-day cycle.
//
// The engine is a pure function of its inputs. It never performs I/O and an
// Engine value may be shared between goroutines.
package hos

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

// DayLayout is the layout of day keys.
const DayLayout = "2006-01-02"

// Rule thresholds in minutes.
const (
	resetMinutes       = 10 * 60
	breakMinutes       = 30
	drivingBeforeBreak = 8 * 60
	drivingLimit       = 11 * 60
	windowLimit        = 14 * 60
)

// CycleDays is the number of day keys the rolling 70-hour window covers.
const CycleDays = 8

var cycleLimitHours = decimal.NewFromInt(70)

// Entry is a duty-status change at an instant.
type Entry struct {
	Timestamp time.Time
	Status    model.Status
}

// DailyTotals holds the hours spent in each duty status during one day.
type DailyTotals struct {
	Off     decimal.Decimal `json:"OFF"`
	Sleeper decimal.Decimal `json:"SLEEPER"`
	Driving decimal.Decimal `json:"DRIVING"`
	OnDuty  decimal.Decimal `json:"ON_DUTY"`
}

// Hours returns the total for a single status.
func (t DailyTotals) Hours(s model.Status) decimal.Decimal {
	switch s {
	case model.StatusOff:
		return t.Off
	case model.StatusSleeper:
		return t.Sleeper
	case model.StatusDriving:
		return t.Driving
	case model.StatusOnDuty:
		return t.OnDuty
	}
	return decimal.Zero
}

// OnDutyHours is driving plus on-duty (not driving) time, the figure counted
// against the cycle limit.
func (t DailyTotals) OnDutyHours() decimal.Decimal {
	return t.Driving.Add(t.OnDuty)
}

// Sum returns the total of all four statuses.
func (t DailyTotals) Sum() decimal.Decimal {
	return t.Off.Add(t.Sleeper).Add(t.Driving).Add(t.OnDuty)
}

// MarshalJSON writes the totals as numbers with two decimals.
func (t DailyTotals) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[model.Status]json.Number{
		model.StatusOff:     json.Number(t.Off.StringFixed(2)),
		model.StatusSleeper: json.Number(t.Sleeper.StringFixed(2)),
		model.StatusDriving: json.Number(t.Driving.StringFixed(2)),
		model.StatusOnDuty:  json.Number(t.OnDuty.StringFixed(2)),
	})
}

// Code identifies the rule a Violation breaks.
type Code string

const (
	Code11H   Code = "11H"
	Code14H   Code = "14H"
	Code30M   Code = "30M"
	Code70In8 Code = "70/8"
)

// Violation is a rule breach on a given day.
type Violation struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Day     string `json:"day"`
}

// Engine evaluates duty entries against the HOS rules.
type Engine struct {
	loc  *time.Location
	seed SeedFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the reference frame in which day keys are interpreted.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithSeed sets the policy that decides the status in effect at the start of
// a day whose first entry comes after midnight. Defaults to SeedFirstEntry.
func WithSeed(fn SeedFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.seed = fn
		}
	}
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{loc: time.UTC, seed: SeedFirstEntry}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Location returns the engine's reference frame.
func (e *Engine) Location() *time.Location { return e.loc }

var defaultEngine = New()

// CalculateDailyTotals computes daily totals with the default engine (UTC,
// first-entry seeding).
func CalculateDailyTotals(entries []Entry, day string) DailyTotals {
	return defaultEngine.CalculateDailyTotals(entries, day)
}

// DetectViolations detects violations with the default engine (UTC,
// first-entry seeding).
func DetectViolations(entriesByDay map[string][]Entry) []Violation {
	return defaultEngine.DetectViolations(entriesByDay)
}

// roundHours converts whole minutes to hours rounded half-up to 2 places.
func roundHours(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

// hoursText renders hours for violation messages with at least one decimal
// place: 12 as "12.0", 11.25 as "11.25".
func hoursText(h decimal.Decimal) string {
	txt := h.Round(2).String()
	if !strings.Contains(txt, ".") {
		txt += ".0"
	}
	return txt
}

// wholeMinutes truncates d to whole minutes, never below zero.
func wholeMinutes(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Minute)
}
