package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

func TestParseDefect(t *testing.T) {
	tests := []struct {
		in   string
		want model.Defect
	}{
		{"left mirror", model.Defect{Item: "left mirror"}},
		{"tires:major", model.Defect{Item: "tires", Severity: "major"}},
		{" horn : minor : weak: replace soon", model.Defect{Item: "horn", Severity: "minor", Note: "weak: replace soon"}},
	}
	for _, tt := range tests {
		if got := parseDefect(tt.in); got != tt.want {
			t.Errorf("parseDefect(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestPrintInspections(t *testing.T) {
	recs := []model.Inspection{
		{Kind: model.InspectionPostTrip, PerformedAt: time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC),
			SignatureDriver: "J. Doe", SignatureMechanic: "B. Smith",
			Defects: []model.Defect{{Item: "brake lights", Severity: "major", Note: "left out"}}},
		{Kind: model.InspectionPreTrip, PerformedAt: time.Date(2026, 3, 9, 5, 30, 0, 0, time.UTC),
			SignatureDriver: "J. Doe", Notes: "all clear"},
	}

	var buf bytes.Buffer
	printInspections(&buf, recs, time.UTC)
	want := "2026-03-09 18:00  POST_TRIP  J. Doe / B. Smith\n" +
		"    - brake lights (major): left out\n" +
		"2026-03-09 05:30  PRE_TRIP   J. Doe\n" +
		"    all clear\n"
	if buf.String() != want {
		t.Errorf("got\n%q\nwant\n%q", buf.String(), want)
	}

	buf.Reset()
	printInspections(&buf, nil, time.UTC)
	if buf.String() != "No inspections found.\n" {
		t.Errorf("empty = %q", buf.String())
	}
}
