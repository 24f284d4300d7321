package stats

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/emilythestrangee/bugai/backend/internal/app"
)

// Command creates the stats command, which prints the platform statistics as JSON
func Command(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print case statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := app.Open(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.Services.Cases.Statistics(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
}
