package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a single recorded duty-status change.
type Event struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Status     Status    `json:"status" validate:"required,dutystatus"`
	City       string    `json:"city,omitempty" validate:"max=128"`
	State      string    `json:"state,omitempty" validate:"max=64"`
	Activity   string    `json:"activity,omitempty" validate:"max=255"`
	Source     string    `json:"source" validate:"required,oneof=manual api outlook"`
	ExternalID string    `json:"external_id,omitempty"`
}

// Event sources.
const (
	SourceManual  = "manual"
	SourceAPI     = "api"
	SourceOutlook = "outlook"
)

// DailyLog holds the certified duty totals of one day.
type DailyLog struct {
	Day          string          `json:"day"`
	TotalOff     decimal.Decimal `json:"total_off"`
	TotalSleeper decimal.Decimal `json:"total_sleeper"`
	TotalDriving decimal.Decimal `json:"total_driving"`
	TotalOnDuty  decimal.Decimal `json:"total_on_duty"`
	Submitted    bool            `json:"submitted"`
	SubmittedAt  *time.Time      `json:"submitted_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date        string       `json:"date"`
	Events      []Event      `json:"events"`
	Inspections []Inspection `json:"inspections,omitempty"`
	Log         *DailyLog    `json:"log,omitempty"`
}
