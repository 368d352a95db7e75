package main

import (
	"github.com/spf13/cobra"

	"cmdchan/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if ctx.interfaceFlag != nil && *ctx.interfaceFlag != "" {
				cfg.Daemon.Interface = *ctx.interfaceFlag
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	return runCmd
}
