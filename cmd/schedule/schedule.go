// Package schedule implements the schedule command, which re-runs the pipeline
// on a cron expression and serves its status over HTTP.
package schedule

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tknemuru/kindergarten-collecting/cmd/common"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
	"github.com/tknemuru/kindergarten-collecting/internal/schedule"
	"github.com/tknemuru/kindergarten-collecting/internal/server"
)

// Command returns the schedule command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the collection pipeline on a schedule",
		Long: `Run the pipeline whenever scheduler.cron fires and expose /health and
/status on scheduler.address. Overlapping runs are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, deps)
		},
	}
}

func run(ctx context.Context, deps *common.CommandDeps) error {
	cfg := deps.Config
	log := deps.Logger

	if err := cfg.Scheduler.Validate(); err != nil {
		return fmt.Errorf("invalid scheduler configuration: %w", err)
	}

	pipeline, err := common.BuildPipeline(ctx, deps)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer pipeline.Close()

	tracker := server.NewTracker()
	scheduler, err := schedule.New(cfg.Scheduler.Cron, pipeline.Collector, tracker, log.WithComponent("scheduler"))
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Scheduler.RunOnStart {
		go func() {
			_, _ = scheduler.RunOnce(ctx)
		}()
	}

	if cfg.Scheduler.Address == "" {
		<-ctx.Done()
		log.Info("Shutdown signal received")
		return nil
	}

	if cfg.Logging.Level == logger.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(server.Options{
		Address:     cfg.Scheduler.Address,
		ServiceName: common.ServiceName,
		Version:     common.Version,
		Checks:      pipeline.Checks,
	}, tracker, log.WithComponent("http"))
	return srv.Run(ctx)
}
