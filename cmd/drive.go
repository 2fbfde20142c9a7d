package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/courtvision/internal/testevents"
	"github.com/spf13/cobra"
)

func newDriveCmd() *cobra.Command {
	cfg := testevents.Config{}

	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Drive a session against a running server and verify the archived record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), driveDeadline(cfg))
			defer cancel()

			stats, err := testevents.Run(ctx, &cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "accepted %d/%d shots in %s\n", stats.ShotsAccepted, stats.ShotsGenerated, stats.Duration)
			if stats.Record != nil {
				fmt.Fprintf(out, "archived %s: %d attempts, %d makes\n",
					stats.Record.ID, stats.Record.Stats.TotalAttempts, stats.Record.Stats.TotalMakes)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", testevents.DefaultBaseURL, "base URL of the service")
	f.IntVar(&cfg.NumShots, "shots", testevents.DefaultShots, "number of shots to submit")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "number of concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", testevents.DefaultTimeout, "HTTP request timeout")
	f.Uint64Var(&cfg.Seed, "seed", 0, "seed for shot generation, 0 picks one")
	f.StringVar(&cfg.OutputFile, "output", "", "write the archived record as JSON")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every accepted shot")
	return cmd
}

// driveDeadline bounds the whole run: a request timeout per shot batch plus
// the session round trips.
func driveDeadline(cfg testevents.Config) time.Duration {
	workers := max(cfg.Workers, 1)
	batches := cfg.NumShots/workers + 1
	return cfg.Timeout * time.Duration(batches+3)
}
