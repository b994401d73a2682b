package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPipelineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run the periodic sentence material maintenance pipeline",
	}
	cmd.AddCommand(newPipelineRunCmd(app))
	return cmd
}

func newPipelineRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Retire stale sentences, backfill, audit, and map tokens (spec §4.5)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := startSpinner("running material pipeline...")
			report, err := app.Pipeline.Run(context.Background(), time.Now())
			stop()
			if err != nil {
				return fmt.Errorf("running pipeline: %w", err)
			}
			fmt.Printf("%s retired=%d backfilled=%d rejected=%d mapped=%d dormant=%d\n",
				styleGreen.Render("pipeline complete"),
				report.Retired, report.Backfilled, report.Rejected, report.Mapped, report.Dormant)
			return nil
		},
	}
}
