package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

var (
	logAt       string
	logCity     string
	logState    string
	logActivity string
)

var logCmd = &cobra.Command{
	Use:   "log <status>",
	Short: "Record a duty status change (OFF, SLEEPER, DRIVING, ON_DUTY)",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVar(&logAt, "at", "", "When the change happened: HH:MM today or RFC3339 (default now)")
	logCmd.Flags().StringVar(&logCity, "city", "", "City of the change")
	logCmd.Flags().StringVar(&logState, "state", "", "State or province of the change")
	logCmd.Flags().StringVar(&logActivity, "activity", "", "Remark, e.g. pre-trip inspection")
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	in := logbook.RecordInput{
		Status:   args[0],
		City:     logCity,
		State:    logState,
		Activity: logActivity,
	}
	if logAt != "" {
		at, err := timecalc.ParseAt(logAt, svc.Now())
		if err != nil {
			fail(fmt.Errorf("%w: %v", logbook.ErrValidation, err))
		}
		in.Timestamp = &at
	}

	ev, err := svc.Record(ctx, in)
	if err != nil {
		fail(err)
	}
	ts := ev.Timestamp.In(svc.Location())
	fmt.Printf("Logged %s at %s (%s)\n", ev.Status, ts.Format("15:04"), ts.Format(timecalc.DayLayout))

	// Warn about the day the change landed on.
	sum, err := svc.Summary(ctx, ts, ts)
	if err != nil {
		fail(err)
	}
	for _, v := range sum.Violations {
		fmt.Fprintf(os.Stderr, "Warning: %s %s\n", v.Code, v.Message)
	}
	return nil
}
