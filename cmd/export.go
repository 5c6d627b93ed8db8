package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

var (
	exportRange  rangeFlags
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export duty status events to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportRange.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	from, to, err := exportRange.resolve(svc, timecalc.WeekRange)
	if err != nil {
		fail(err)
	}

	events, err := svc.Events(context.Background(), from, to)
	if err != nil {
		fail(err)
	}

	if err := writeExport(os.Stdout, exportFormat, events, svc.Location()); err != nil {
		fail(err)
	}
	return nil
}

func writeExport(w io.Writer, format string, events []model.Event, loc *time.Location) error {
	switch format {
	case "json":
		if events == nil {
			events = []model.Event{}
		}
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "md":
		printList(w, events, loc)
	case "csv":
		printCSV(w, events, loc)
	default:
		return fmt.Errorf("%w: unknown format %q (want csv, json or md)", logbook.ErrValidation, format)
	}
	return nil
}

func printCSV(w io.Writer, events []model.Event, loc *time.Location) {
	fmt.Fprintln(w, "date,timestamp,status,city,state,activity,source,id")
	for _, e := range events {
		ts := e.Timestamp.In(loc)
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s\n",
			csvEscape(ts.Format(timecalc.DayLayout)),
			csvEscape(ts.Format(time.RFC3339)),
			csvEscape(string(e.Status)),
			csvEscape(e.City),
			csvEscape(e.State),
			csvEscape(e.Activity),
			csvEscape(e.Source),
			csvEscape(e.ID),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
