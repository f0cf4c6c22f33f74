package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"marketsnap/internal/chrono"
	"marketsnap/lib/telemetry"

	"github.com/spf13/cobra"
)

const report_watch_run = "watch.run"

var watchImmediately bool

func init() {
	watchCmd.Flags().BoolVar(&watchImmediately, "now", false, "Takes a snapshot right away instead of waiting for the first tick.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--now]",
	Short: "Takes snapshots on the configured schedule until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		p, cleanup, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		tel := telemetry.NewScopedAPI("watch", telemetry.SlogAPI{})
		telemetry.InstrumentPerfStats(ctx, tel)
		slog.Info("watching", "url", cfg.Url, "schedule", cfg.Schedule, "top_n", cfg.TopN)

		cron := chrono.NewStandardCron(tel)
		err = watch(ctx, cron, cfg.Schedule, watchImmediately, p.run, tel)
		if err != nil {
			return err
		}
		slog.Info("stopped watching", "url", cfg.Url)
		return nil
	},
}

// watch schedules `run` on `schedule` until ctx is done. It only returns once every
// run it started is over, since the caller closes what the runs use.
func watch(
	ctx context.Context,
	cron chrono.CronAPI,
	schedule string,
	immediately bool,
	run func(ctx context.Context) error,
	tel telemetry.API,
) error {
	job := func() {
		err := run(ctx)
		if err != nil {
			tel.ReportBroken(report_watch_run, err)
		}
	}

	err := cron.Cron(schedule, job)
	if err != nil {
		<-cron.Stop()
		return fmt.Errorf("invalid schedule '%s': %w", schedule, err)
	}

	var immediate sync.WaitGroup
	if immediately {
		immediate.Add(1)
		go func() {
			defer immediate.Done()
			job()
		}()
	}

	<-ctx.Done()
	<-cron.Stop()
	immediate.Wait()
	return nil
}
