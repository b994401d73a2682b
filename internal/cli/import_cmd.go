package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/houshuang/alif/internal/importer"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <candidate-batch.json>",
		Short: "Ingest a candidate batch from an OCR/story/course/frequency-list collaborator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := importer.LoadCandidateBatch(args[0])
			if err != nil {
				return fmt.Errorf("loading candidate batch: %w", err)
			}
			if errs := importer.ValidateCandidateBatch(batch); len(errs) > 0 {
				for _, e := range errs {
					fmt.Println(styleRed.Render(e.Error()))
				}
				return fmt.Errorf("candidate batch failed validation (%d error(s))", len(errs))
			}
			result, err := app.Ingester.Ingest(context.Background(), batch)
			if err != nil {
				return fmt.Errorf("ingesting batch: %w", err)
			}
			fmt.Printf("%s lemmas=%d sentences=%d warnings=%d\n",
				styleGreen.Render("import complete"), len(result.CreatedLemmaIDs), len(result.CreatedSentenceIDs), len(result.Warnings))
			return nil
		},
	}
}
