// Command courtvision runs the shot tracking service and its tooling.
package main

import (
	"os"

	"github.com/okian/courtvision/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "courtvision",
		Short:        "Basketball shot tracking sessions, history and insights",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				return logger.SetLevelString(logLevel)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newServeCmd(), newDemoCmd(), newDriveCmd())
	return root
}
