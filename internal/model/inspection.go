package model

import (
	"fmt"
	"strings"
	"time"
)

// InspectionKind tells whether a vehicle inspection was done before or after a trip.
type InspectionKind string

const (
	InspectionPreTrip  InspectionKind = "PRE_TRIP"
	InspectionPostTrip InspectionKind = "POST_TRIP"
)

// ParseInspectionKind normalises "pre-trip", "Post Trip", "pre" and the like.
func ParseInspectionKind(raw string) (InspectionKind, error) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "PRE_TRIP", "PRE", "PRETRIP":
		return InspectionPreTrip, nil
	case "POST_TRIP", "POST", "POSTTRIP":
		return InspectionPostTrip, nil
	}
	return "", fmt.Errorf("unknown inspection kind %q (want PRE_TRIP or POST_TRIP)", raw)
}

// Defect is one problem found during an inspection.
type Defect struct {
	Item     string `json:"item" validate:"required,max=128"`
	Severity string `json:"severity,omitempty" validate:"max=32"`
	Note     string `json:"note,omitempty" validate:"max=255"`
}

// Inspection is a signed pre- or post-trip vehicle inspection report.
type Inspection struct {
	ID                string         `json:"id"`
	Kind              InspectionKind `json:"kind" validate:"required,oneof=PRE_TRIP POST_TRIP"`
	PerformedAt       time.Time      `json:"performed_at"`
	Defects           []Defect       `json:"defects" validate:"dive"`
	SignatureDriver   string         `json:"signature_driver" validate:"required,max=255"`
	SignatureMechanic string         `json:"signature_mechanic,omitempty" validate:"max=255"`
	Notes             string         `json:"notes,omitempty" validate:"max=2000"`
	CreatedAt         time.Time      `json:"created_at"`
}
