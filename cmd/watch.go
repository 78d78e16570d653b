package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"datajoin/core/config"
	"datajoin/core/logger"
	"datajoin/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchOnce bool

// watchCmd polls one configured source and reports every reconciliation.
var watchCmd = &cobra.Command{
	Use:     "watch <assets|table>",
	Aliases: []string{"reconcile"},
	Short:   "Reconcile a configured source on an interval",
	Long: `Loads the source every reconcile.interval_seconds and reconciles it against
the previous load. Each report is logged and printed.

Examples:
  # Single reconciliation of the storage listing
  datajoin watch assets --once

  # Track the configured table until interrupted
  datajoin watch table`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"assets", "table"},
	RunE:      runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Reconcile once and exit")
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	syncer, err := buildSyncer(args[0], cfg, l)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if watchOnce {
		report, err := syncer.Sync(ctx)
		if err != nil {
			return err
		}
		return writeReport(out, report)
	}

	l.Info("Watching source",
		zap.String("source", syncer.Name()),
		zap.Duration("interval", cfg.Reconcile.Interval()),
	)
	return reconcile.Poll(ctx, syncer, cfg.Reconcile.Interval(), l, func(r *reconcile.Report) {
		if r.Version > 1 && !r.Summary.HasChanges() {
			return
		}
		if err := writeReport(out, r); err != nil {
			l.Warn("Failed to print report", zap.Error(err))
		}
	})
}
