package main

import (
	"context"
	"fmt"
	"io"
	"time"

	service "github.com/okian/courtvision/internal/app"
	"github.com/okian/courtvision/internal/domain/model"
	"github.com/spf13/cobra"
)

const (
	defaultDemoDuration = 10 * time.Second
	defaultDemoInterval = time.Second
)

func newDemoCmd() *cobra.Command {
	var (
		duration time.Duration
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run one in-process session against the mock detector and print its summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			// Demo sessions are throwaway; never touch a configured database.
			opts := append(service.FromConfig(cfg),
				service.WithMockShots(true),
				service.WithMockShotInterval(interval),
				service.WithHistoryDBPath(""),
			)
			return runDemo(cmd.Context(), cmd.OutOrStdout(), duration, opts...)
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", defaultDemoDuration, "how long the session records")
	cmd.Flags().DurationVar(&interval, "interval", defaultDemoInterval, "mock shot emission period")
	return cmd
}

func runDemo(ctx context.Context, out io.Writer, duration time.Duration, opts ...service.Option) error {
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	if err := svc.StartSession(ctx, model.DefaultCalibration()); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}

	rec, err := svc.EndSession(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if rec == nil {
		fmt.Fprintln(out, "Attempts: 0")
		fmt.Fprintln(out, "No shots detected; nothing archived.")
		return nil
	}

	sum, err := svc.Summary(context.WithoutCancel(ctx), rec.ID)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	printSummary(out, sum)
	return nil
}

func printSummary(out io.Writer, sum service.Summary) {
	st := sum.Record.Stats
	fmt.Fprintf(out, "Session %s (%s)\n", sum.Record.ID, sum.Record.Date.Format(time.RFC3339))
	fmt.Fprintf(out, "Attempts: %d  Makes: %d  FG%%: %.1f\n", st.TotalAttempts, st.TotalMakes, sum.FieldGoalPercentage*100)
	fmt.Fprintf(out, "3PT: %d/%d (%.1f%%)  FT: %d/%d (%.1f%%)\n",
		st.ThreePointMakes, st.ThreePointAttempts, sum.ThreePointPercentage*100,
		st.FreeThrowMakes, st.FreeThrowAttempts, sum.FreeThrowPercentage*100)
	for i, e := range sum.Record.Events {
		fmt.Fprintf(out, "  %3d. %-4s %-7s %s\n", i+1, e.Result, e.DistanceClass.DisplayName(), e.Timestamp.Format(time.TimeOnly))
	}
	if sum.ErrorMessage != "" {
		fmt.Fprintln(out, sum.ErrorMessage)
		return
	}
	fmt.Fprintln(out, sum.Insights)
}
