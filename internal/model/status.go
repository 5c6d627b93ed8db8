package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is a driver duty status. Only the four constants below are valid.
type Status string

const (
	StatusOff     Status = "OFF"
	StatusSleeper Status = "SLEEPER"
	StatusDriving Status = "DRIVING"
	StatusOnDuty  Status = "ON_DUTY"
)

// Statuses returns all duty statuses in logbook grid order.
func Statuses() []Status {
	return []Status{StatusOff, StatusSleeper, StatusDriving, StatusOnDuty}
}

// Valid reports whether s is one of the four duty statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOff, StatusSleeper, StatusDriving, StatusOnDuty:
		return true
	}
	return false
}

// Resting reports whether s counts as rest (OFF or SLEEPER).
func (s Status) Resting() bool {
	return s == StatusOff || s == StatusSleeper
}

// OnDuty reports whether s counts towards the duty window (DRIVING or ON_DUTY).
func (s Status) OnDuty() bool {
	return s == StatusDriving || s == StatusOnDuty
}

// ParseStatus parses a status name. Matching is case-insensitive and accepts
// "on duty", "on-duty", "off duty" and "sb" spellings.
func ParseStatus(raw string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "OFF", "OFF_DUTY":
		return StatusOff, nil
	case "SLEEPER", "SB", "SLEEPER_BERTH":
		return StatusSleeper, nil
	case "DRIVING", "D":
		return StatusDriving, nil
	case "ON_DUTY", "ON":
		return StatusOnDuty, nil
	}
	return "", fmt.Errorf("unknown duty status %q (want OFF, SLEEPER, DRIVING or ON_DUTY)", raw)
}

// UnmarshalJSON rejects anything but the canonical status names.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duty status must be a string: %w", err)
	}
	st := Status(raw)
	if !st.Valid() {
		return fmt.Errorf("unknown duty status %q", raw)
	}
	*s = st
	return nil
}
