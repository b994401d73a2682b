package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "alif" command and registers every
// subcommand against app, the same shape as kairos's NewRootCmd
// (internal/cli/root.go) over alif's six scheduler subsystems instead of
// project/node/work-item services.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "alif",
		Short: "Arabic vocabulary scheduler",
		Long: `Alif: a reading-focused Arabic vocabulary learning scheduler.

Run "alif review" to fetch and work through today's session interactively.`,
	}

	root.AddCommand(
		newSessionCmd(app),
		newReviewCmd(app),
		newUndoCmd(app),
		newWordCmd(app),
		newPipelineCmd(app),
		newImportCmd(app),
	)

	return root
}
