package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the duty status in effect and today's hours",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var cycleLimit = decimal.NewFromInt(70)

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	now := svc.Now()

	cur, err := svc.Current(ctx)
	if err != nil {
		fail(err)
	}
	if cur == nil {
		fmt.Println("No duty status recorded in the last 8 days.")
	} else {
		since := cur.Timestamp.In(svc.Location())
		fmt.Printf("Status: %s\n", cur.Status)
		fmt.Printf("  Since: %s\n", since.Format("2006-01-02 15:04"))
		fmt.Printf("  Elapsed: %s\n", formatElapsed(int64(now.Sub(since).Seconds())))
	}

	from, to := timecalc.CycleRange(now)
	sum, err := svc.Summary(ctx, from, to)
	if err != nil {
		fail(err)
	}

	used := decimal.Zero
	today := now.Format(timecalc.DayLayout)
	fmt.Println()
	fmt.Println("Today:")
	found := false
	for _, d := range sum.Daily {
		used = used.Add(d.Totals.OnDutyHours())
		if d.Day != today {
			continue
		}
		found = true
		for _, s := range model.Statuses() {
			fmt.Printf("  %-8s %6sh\n", s, d.Totals.Hours(s).StringFixed(2))
		}
	}
	if !found {
		fmt.Println("  nothing logged")
	}
	fmt.Printf("Cycle: %sh of %sh used, %sh available\n",
		used.StringFixed(2), cycleLimit, decimal.Max(cycleLimit.Sub(used), decimal.Zero).StringFixed(2))

	for _, v := range sum.Violations {
		if v.Day == today {
			fmt.Printf("Violation: %s %s\n", v.Code, v.Message)
		}
	}
	return nil
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
