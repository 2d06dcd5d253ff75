package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "task-manager",
		Short:         "Task management service with REST, web and gRPC interfaces",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default ./config.yaml)")

	rootCmd.AddCommand(
		newServeCommand(&configFile),
		newMigrateCommand(&configFile),
	)

	return rootCmd
}
