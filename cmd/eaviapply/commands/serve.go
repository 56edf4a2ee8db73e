package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/config"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/logger"
)

// ServeCmd represents the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the decision scheduler daemon",
	Long: `Run the decision scheduler daemon.

On startup the daemon rebuilds its timer state from the database: every
Pending applicant gets a timer for the remainder of the configured delay,
and applicants already past it are decided immediately. The daemon then
sweeps the database periodically so submissions recorded while it runs
are picked up without a restart.`,
	RunE: runServe,
}

var sweepIntervalFlag time.Duration

func init() {
	ServeCmd.Flags().DurationVar(&sweepIntervalFlag, "sweep-interval", 30*time.Second, "How often to scan for new pending applications")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	svc, _, _, err := buildService(database, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.OnProcessStart(ctx); err != nil {
		return errors.Wrap(err, "failed to recover scheduler state")
	}

	logger.Infow("Scheduler daemon running",
		"sweep_interval", sweepIntervalFlag,
		"active_timers", svc.Timers().Active(),
	)

	ticker := time.NewTicker(sweepIntervalFlag)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := svc.RecoverAll(ctx); err != nil {
				logger.Errorw("Scheduler sweep failed", "error", err)
			}
		case <-ctx.Done():
			logger.Infow("Shutdown signal received")
			svc.OnProcessStop()
			logger.Infow("Scheduler daemon stopped")
			return nil
		}
	}
}
