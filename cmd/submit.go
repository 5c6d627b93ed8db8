package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

var submitDate string

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Certify a day's log",
	Args:  cobra.NoArgs,
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitDate, "date", "", "Day to certify (YYYY-MM-DD, default today)")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	day := submitDate
	if day == "" {
		day = svc.Now().Format(timecalc.DayLayout)
	}

	log, err := svc.Submit(context.Background(), day)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Submitted log for %s\n", log.Day)
	fmt.Printf("  OFF      %6sh\n", log.TotalOff.StringFixed(2))
	fmt.Printf("  SLEEPER  %6sh\n", log.TotalSleeper.StringFixed(2))
	fmt.Printf("  DRIVING  %6sh\n", log.TotalDriving.StringFixed(2))
	fmt.Printf("  ON_DUTY  %6sh\n", log.TotalOnDuty.StringFixed(2))
	return nil
}
