package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/config"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/observability"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/storage"
)

// Exit codes.
const (
	exitUser       = 1
	exitStorage    = 2
	exitViolations = 3
)

var (
	homeFlag     string
	logLevelFlag string

	// Set up by loadApp before any subcommand runs.
	base string
	cfg  config.Config
	svc  *logbook.Service
)

var rootCmd = &cobra.Command{
	Use:   "eld",
	Short: "eld – a file-based driver logbook with hours-of-service checks",
	Long: `eld records duty status changes (OFF, SLEEPER, DRIVING, ON_DUTY), computes
daily duty totals and flags violations of the 11-hour, 14-hour, 30-minute and
70-hour/8-day rules. All data is stored as human-readable JSON files in ~/.eld/.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadApp,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUser)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Data directory (default $ELD_HOME or ~/.eld)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Diagnostic log level: debug, info, warn, error")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(violationsCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(inspectionsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadApp resolves the data directory, reads the config and builds the
// logbook service.
func loadApp(cmd *cobra.Command, args []string) error {
	base = homeFlag
	if base == "" {
		var err error
		if base, err = storage.BaseDir(); err != nil {
			fail(err)
		}
	}

	var err error
	cfg, err = config.Load(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUser)
	}

	level := cfg.Log.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logger.Init(logger.Options{Level: level, Format: cfg.Log.Format, Component: "eld"})

	loc, err := cfg.Location()
	if err != nil {
		fail(fmt.Errorf("%w: %v", logbook.ErrValidation, err))
	}
	svc = logbook.New(logbook.Options{
		Base:       base,
		Location:   loc,
		SeedPolicy: cfg.HOS.SeedPolicy,
		Logger:     logger.Named("logbook"),
		Metrics:    observability.Default(),
	})
	logger.Get().Debug().Str("home", base).Str("tz", loc.String()).Msg("logbook ready")
	return nil
}

// exitCode maps an error to the process exit code: 1 for bad input, 2 for
// storage and other failures.
func exitCode(err error) int {
	if errors.Is(err, logbook.ErrValidation) {
		return exitUser
	}
	return exitStorage
}

// fail prints err and exits with its exit code.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}
