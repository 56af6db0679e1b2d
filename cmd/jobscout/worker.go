package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmatsuda/jobscout/internal/pipeline"
)

var workerSchedule string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the scoring worker",
	Long:  `Consume scoring tasks from the queue until interrupted. With --schedule (or a configured schedule_spec), also runs periodic discovery for profiles that opted into automatic discovery.`,
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&workerSchedule, "schedule", "", `Cron spec for periodic discovery (e.g. "0 6 * * *")`)
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	spec := workerSchedule
	if spec == "" {
		spec = a.cfg.ScheduleSpec
	}
	if spec != "" {
		scheduler := pipeline.NewScheduler(a.service, a.cfg.Sources, a.log)
		if err := scheduler.Start(ctx, spec); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	if err := a.service.RunWorker(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
