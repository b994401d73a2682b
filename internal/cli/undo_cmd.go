package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newUndoCmd(app *App) *cobra.Command {
	var lemmaID, sessionPrefix string
	c := &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent review for a lemma within a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lemmaID == "" || sessionPrefix == "" {
				return fmt.Errorf("both --lemma and --session are required")
			}
			if err := app.FSRS.UndoLast(context.Background(), lemmaID, sessionPrefix); err != nil {
				return fmt.Errorf("undoing review: %w", err)
			}
			fmt.Println(styleGreen.Render("undone (or already a no-op, per idempotent undo)"))
			return nil
		},
	}
	c.Flags().StringVar(&lemmaID, "lemma", "", "lemma id to undo")
	c.Flags().StringVar(&sessionPrefix, "session", "", "session id prefix the review belongs to")
	return c
}
