package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/msgraph"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

var (
	outlookSyncRange  rangeFlags
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import planned duty blocks from the Outlook calendar",
	Long: `Reads calendar events and turns each block whose category or subject names a
duty status (OFF, SLEEPER, DRIVING, ON_DUTY) into a status change at its start
and an OFF change at its end. Re-running the sync updates imported events in
place and never touches events logged by hand.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncRange.register(outlookSyncCmd)
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// graphTimezone returns the zone to request from Graph. Fixed offsets such as
// "UTC-06:00" are not Windows or IANA names, so those are fetched in UTC.
func graphTimezone(tz string) string {
	if strings.HasPrefix(strings.ToUpper(tz), "UTC") && len(tz) > 3 {
		return ""
	}
	return tz
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := outlookSyncRange.resolve(svc, todayRange)
	if err != nil {
		fail(err)
	}
	from = timecalc.StartOfDay(from)
	until := timecalc.StartOfDay(to).AddDate(0, 0, 1)

	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = cfg.Outlook.Timezone
	}
	if timezone == "" {
		timezone = cfg.Driver.TimeZone
	}
	timezone = graphTimezone(timezone)

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n",
		from.Format(timecalc.DayLayout), to.Format(timecalc.DayLayout), dryTag)
	fmt.Println()

	ctx := context.Background()
	store := msgraph.NewTokenStore(base)

	tok, oc, err := msgraph.Authenticate(ctx, store, cfg.Outlook.TenantID, cfg.Outlook.ClientID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(exitStorage)
	}

	client := msgraph.NewClient(ctx, tok, oc, store)

	events, err := client.GetCalendarView(ctx, from, until, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		os.Exit(exitStorage)
	}
	logger.Get().Debug().Int("events", len(events)).Str("tz", timezone).Msg("calendar view fetched")

	result, err := msgraph.SyncEvents(events, msgraph.SyncOptions{
		Base:     base,
		DryRun:   outlookSyncDryRun,
		Location: svc.Location(),
		Out:      os.Stdout,
		From:     from,
		To:       to,
	}, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(exitStorage)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(exitStorage)
	}
	return nil
}
