package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/hos"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

var (
	violationsRange  rangeFlags
	violationsFormat string
)

var violationsCmd = &cobra.Command{
	Use:   "violations",
	Short: "Check hours-of-service rules (exit code 3 when violated)",
	Long: `Checks the 11-hour driving limit, the 14-hour on-duty window, the 30-minute
break after 8 hours of driving and the 70-hour/8-day cycle. Defaults to the
eight days ending today.`,
	Args: cobra.NoArgs,
	RunE: runViolations,
}

func init() {
	violationsRange.register(violationsCmd)
	violationsCmd.Flags().StringVar(&violationsFormat, "format", "md", "Output format: md, json")
}

func runViolations(cmd *cobra.Command, args []string) error {
	from, to, err := violationsRange.resolve(svc, timecalc.CycleRange)
	if err != nil {
		fail(err)
	}

	sum, err := svc.Summary(context.Background(), from, to)
	if err != nil {
		fail(err)
	}

	if err := writeViolations(os.Stdout, violationsFormat, sum.Violations); err != nil {
		fail(err)
	}
	if len(sum.Violations) > 0 {
		os.Exit(exitViolations)
	}
	return nil
}

func writeViolations(w io.Writer, format string, vs []hos.Violation) error {
	switch format {
	case "json":
		if vs == nil {
			vs = []hos.Violation{}
		}
		data, err := json.MarshalIndent(vs, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "md":
		if len(vs) == 0 {
			fmt.Fprintln(w, "No violations.")
			return nil
		}
		for _, v := range vs {
			fmt.Fprintf(w, "%s  %-5s %s\n", v.Day, v.Code, v.Message)
		}
	default:
		return fmt.Errorf("%w: unknown format %q (want md or json)", logbook.ErrValidation, format)
	}
	return nil
}
