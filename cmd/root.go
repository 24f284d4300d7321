package cmd

import (
	"github.com/spf13/cobra"

	"github.com/emilythestrangee/bugai/backend/cmd/migrate"
	"github.com/emilythestrangee/bugai/backend/cmd/serve"
	"github.com/emilythestrangee/bugai/backend/cmd/stats"
	"github.com/emilythestrangee/bugai/backend/internal/app"
)

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "bugai",
		Short:        "BugAI backend server",
		Version:      app.Version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml (default ./config/config.yaml)")

	rootCmd.AddCommand(
		serve.Command(&configPath),
		migrate.Command(&configPath),
		stats.Command(&configPath),
	)

	return rootCmd
}
