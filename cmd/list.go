package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

var listRange rangeFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded duty status changes",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listRange.register(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	from, to, err := listRange.resolve(svc, todayRange)
	if err != nil {
		fail(err)
	}

	events, err := svc.Events(context.Background(), from, to)
	if err != nil {
		fail(err)
	}

	printList(os.Stdout, events, svc.Location())
	return nil
}

// printList groups events by local day and prints them.
func printList(w io.Writer, events []model.Event, loc *time.Location) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	var currentDay string
	for _, e := range events {
		ts := e.Timestamp.In(loc)
		day := ts.Format(timecalc.DayLayout)
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}

		place := strings.Trim(e.City+", "+e.State, ", ")
		line := fmt.Sprintf("%s  %-8s", ts.Format("15:04"), e.Status)
		if place != "" {
			line += "  " + place
		}
		if e.Activity != "" {
			line += "  " + e.Activity
		}
		if e.Source != model.SourceManual {
			line += fmt.Sprintf(" [%s]", e.Source)
		}
		fmt.Fprintln(w, line)
	}
}
