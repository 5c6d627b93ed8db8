package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"Salt Lake City", "Salt Lake City"},
		{"Pre-trip, inspection", `"Pre-trip, inspection"`},
		{`the "yard"`, `"the ""yard"""`},
		{"line\nbreak", "\"line\nbreak\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func exportEvents() []model.Event {
	return []model.Event{
		{ID: "a", Timestamp: time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC), Status: model.StatusOnDuty,
			City: "Dallas", State: "TX", Activity: "Pre-trip, inspection", Source: model.SourceManual},
		{ID: "b", Timestamp: time.Date(2026, 3, 10, 4, 30, 0, 0, time.UTC), Status: model.StatusDriving,
			Source: model.SourceOutlook, ExternalID: "cal-1#start"},
	}
}

func TestWriteExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "csv", exportEvents(), time.UTC); err != nil {
		t.Fatal(err)
	}
	want := "date,timestamp,status,city,state,activity,source,id\n" +
		`2026-03-09,2026-03-09T06:00:00Z,ON_DUTY,Dallas,TX,"Pre-trip, inspection",manual,a` + "\n" +
		"2026-03-10,2026-03-10T04:30:00Z,DRIVING,,,,outlook,b\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteExportCSVUsesLocalDay(t *testing.T) {
	chicago := time.FixedZone("UTC-06:00", -6*3600)
	var buf bytes.Buffer
	if err := writeExport(&buf, "csv", exportEvents()[1:], chicago); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2026-03-09,2026-03-09T22:30:00-06:00,DRIVING") {
		t.Errorf("row = %s", lines[1])
	}
}

func TestWriteExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "json", exportEvents(), time.UTC); err != nil {
		t.Fatal(err)
	}
	var got []model.Event
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[1].ExternalID != "cal-1#start" || got[0].Status != model.StatusOnDuty {
		t.Errorf("decoded = %+v", got)
	}

	buf.Reset()
	if err := writeExport(&buf, "json", nil, time.UTC); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}

func TestWriteExportMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "md", exportEvents(), time.UTC); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "04:30  DRIVING  [outlook]") {
		t.Errorf("md =\n%s", buf.String())
	}
}

func TestWriteExportUnknownFormat(t *testing.T) {
	err := writeExport(&bytes.Buffer{}, "xlsx", exportEvents(), time.UTC)
	if !errors.Is(err, logbook.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
