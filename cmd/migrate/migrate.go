package migrate

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/emilythestrangee/bugai/backend/internal/config"
	"github.com/emilythestrangee/bugai/backend/internal/database"
	"github.com/emilythestrangee/bugai/backend/internal/logger"
)

// Command creates the migrate command, which creates or updates the schema and exits
func Command(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database, logger.New(cfg.Logging))
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Migrate(ctx)
		},
	}
}
