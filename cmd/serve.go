package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/api"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the logbook over HTTP",
	Long: `Starts a JSON API on the logbook directory:

  POST /v1/events                    record a duty status change
  GET  /v1/events?from=&to=          list events
  GET  /v1/hos?from=&to=             daily totals and violations
  GET  /v1/daily-logs?from=&to=      submitted daily logs
  POST /v1/daily-logs/{day}/submit   certify a day

Prometheus metrics are exposed on /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := api.NewHandler(svc, logger.Named("api"))
	srv := api.NewServer(addr, h, logger.Named("http"))
	if err := srv.Run(ctx); err != nil {
		fail(err)
	}
	return nil
}
