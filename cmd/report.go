package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/hos"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

var (
	reportRange  rangeFlags
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show daily duty totals",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportRange.register(reportCmd)
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	from, to, err := reportRange.resolve(svc, timecalc.WeekRange)
	if err != nil {
		fail(err)
	}

	sum, err := svc.Summary(context.Background(), from, to)
	if err != nil {
		fail(err)
	}

	label := fmt.Sprintf("%s – %s", from.Format(timecalc.DayLayout), to.Format(timecalc.DayLayout))
	if wkFrom, wkTo := timecalc.WeekRange(from); wkFrom.Equal(from) && wkTo.Equal(to) {
		label = "Week " + timecalc.ISOWeekLabel(from)
	}

	if err := writeReport(os.Stdout, reportFormat, label, from, to, sum.Daily); err != nil {
		fail(err)
	}
	return nil
}

type reportJSON struct {
	From  string              `json:"from"`
	To    string              `json:"to"`
	Days  []logbook.DayTotals `json:"days"`
	Total hos.DailyTotals     `json:"total"`
}

func sumTotals(days []logbook.DayTotals) hos.DailyTotals {
	var t hos.DailyTotals
	for _, d := range days {
		t.Off = t.Off.Add(d.Totals.Off)
		t.Sleeper = t.Sleeper.Add(d.Totals.Sleeper)
		t.Driving = t.Driving.Add(d.Totals.Driving)
		t.OnDuty = t.OnDuty.Add(d.Totals.OnDuty)
	}
	return t
}

func writeReport(w io.Writer, format, label string, from, to time.Time, days []logbook.DayTotals) error {
	total := sumTotals(days)
	switch format {
	case "csv":
		fmt.Fprintln(w, "day,off_hours,sleeper_hours,driving_hours,on_duty_hours")
		for _, d := range days {
			fmt.Fprintf(w, "%s,%s,%s,%s,%s\n", d.Day,
				d.Totals.Off.StringFixed(2), d.Totals.Sleeper.StringFixed(2),
				d.Totals.Driving.StringFixed(2), d.Totals.OnDuty.StringFixed(2))
		}
	case "json":
		data, err := json.MarshalIndent(reportJSON{
			From:  from.Format(timecalc.DayLayout),
			To:    to.Format(timecalc.DayLayout),
			Days:  days,
			Total: total,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "md":
		fmt.Fprintln(w, label)
		fmt.Fprintln(w, "------------------------------------------------")
		fmt.Fprintf(w, "%-12s%9s%9s%9s%9s\n", "Day", "OFF", "SLEEPER", "DRIVING", "ON_DUTY")
		for _, d := range days {
			fmt.Fprintf(w, "%-12s%9s%9s%9s%9s\n", d.Day,
				d.Totals.Off.StringFixed(2), d.Totals.Sleeper.StringFixed(2),
				d.Totals.Driving.StringFixed(2), d.Totals.OnDuty.StringFixed(2))
		}
		fmt.Fprintln(w, "------------------------------------------------")
		fmt.Fprintf(w, "%-12s%9s%9s%9s%9s\n", "Total",
			total.Off.StringFixed(2), total.Sleeper.StringFixed(2),
			total.Driving.StringFixed(2), total.OnDuty.StringFixed(2))
	default:
		return fmt.Errorf("%w: unknown format %q (want md, csv or json)", logbook.ErrValidation, format)
	}
	return nil
}
