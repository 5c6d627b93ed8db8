package cmd

import (
	"context"
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
	inspectAt        string
	inspectDefects   []string
	inspectSignature string
	inspectMechanic  string
	inspectNotes     string

	inspectionsRange rangeFlags
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <pre|post>",
	Short: "Record a pre-trip or post-trip vehicle inspection",
	Long: `Records a signed vehicle inspection report. Each --defect takes the form
item[:severity[:note]], e.g. --defect "left mirror:minor:cracked".`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var inspectionsCmd = &cobra.Command{
	Use:   "inspections",
	Short: "List vehicle inspections, newest first",
	Args:  cobra.NoArgs,
	RunE:  runInspections,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectAt, "at", "", "When the inspection was done: HH:MM today or RFC3339 (default now)")
	inspectCmd.Flags().StringArrayVar(&inspectDefects, "defect", nil, "Defect found, item[:severity[:note]] (repeatable)")
	inspectCmd.Flags().StringVar(&inspectSignature, "signature", "", "Driver signature (default driver name from config)")
	inspectCmd.Flags().StringVar(&inspectMechanic, "mechanic", "", "Mechanic signature")
	inspectCmd.Flags().StringVar(&inspectNotes, "notes", "", "Free-text notes")

	inspectionsRange.register(inspectionsCmd)
}

// parseDefect splits "item:severity:note". The note may contain colons.
func parseDefect(s string) model.Defect {
	parts := strings.SplitN(s, ":", 3)
	d := model.Defect{Item: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		d.Severity = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		d.Note = strings.TrimSpace(parts[2])
	}
	return d
}

func runInspect(cmd *cobra.Command, args []string) error {
	in := logbook.InspectInput{
		Kind:              args[0],
		SignatureDriver:   inspectSignature,
		SignatureMechanic: inspectMechanic,
		Notes:             inspectNotes,
	}
	if in.SignatureDriver == "" {
		in.SignatureDriver = cfg.Driver.Name
	}
	for _, raw := range inspectDefects {
		in.Defects = append(in.Defects, parseDefect(raw))
	}
	if inspectAt != "" {
		at, err := timecalc.ParseAt(inspectAt, svc.Now())
		if err != nil {
			fail(fmt.Errorf("%w: %v", logbook.ErrValidation, err))
		}
		in.PerformedAt = &at
	}

	rec, err := svc.Inspect(context.Background(), in)
	if err != nil {
		fail(err)
	}
	ts := rec.PerformedAt.In(svc.Location())
	fmt.Printf("Recorded %s inspection at %s (%s), %d defect(s)\n",
		rec.Kind, ts.Format("15:04"), ts.Format(timecalc.DayLayout), len(rec.Defects))
	return nil
}

func runInspections(cmd *cobra.Command, args []string) error {
	from, to, err := inspectionsRange.resolve(svc, timecalc.WeekRange)
	if err != nil {
		fail(err)
	}
	recs, err := svc.Inspections(context.Background(), from, to)
	if err != nil {
		fail(err)
	}
	printInspections(os.Stdout, recs, svc.Location())
	return nil
}

func printInspections(w io.Writer, recs []model.Inspection, loc *time.Location) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No inspections found.")
		return
	}
	for _, r := range recs {
		line := fmt.Sprintf("%s  %-9s  %s", r.PerformedAt.In(loc).Format("2006-01-02 15:04"), r.Kind, r.SignatureDriver)
		if r.SignatureMechanic != "" {
			line += " / " + r.SignatureMechanic
		}
		fmt.Fprintln(w, line)
		for _, d := range r.Defects {
			defect := "    - " + d.Item
			if d.Severity != "" {
				defect += " (" + d.Severity + ")"
			}
			if d.Note != "" {
				defect += ": " + d.Note
			}
			fmt.Fprintln(w, defect)
		}
		if r.Notes != "" {
			fmt.Fprintln(w, "    "+r.Notes)
		}
	}
}
