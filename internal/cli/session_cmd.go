package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/houshuang/alif/internal/session"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the next session without reviewing it",
	}
	cmd.AddCommand(newSessionNextCmd(app))
	return cmd
}

func newSessionNextCmd(app *App) *cobra.Command {
	var size int
	c := &cobra.Command{
		Use:   "next",
		Short: "Build and print the next session (read-only, no credit taken)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Builder.BuildSession(context.Background(), time.Now(), size)
			if err != nil {
				return fmt.Errorf("building session: %w", err)
			}
			fmt.Print(formatSessionPreview(sess))
			return nil
		},
	}
	c.Flags().IntVar(&size, "size", 0, "requested session size (0 = configured default)")
	return c
}

func formatSessionPreview(sess *session.Session) string {
	if sess.Size() == 0 {
		return styleDim.Render("no due obligations right now\n")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %d item(s)\n", styleHeader.Render(fmt.Sprintf("session %s", sess.ID[:8])), sess.Size())
	for i, item := range sess.Items {
		marker := " "
		if item.Acquiring {
			marker = styleYellow.Render("*")
		}
		fmt.Fprintf(&b, "%2d. %s %s\n    %s\n", i+1, marker, item.Sentence.Arabic, styleDim.Render(item.Sentence.English))
	}
	if len(sess.UnmetDue) > 0 {
		fmt.Fprintf(&b, "%s\n", styleRed.Render(fmt.Sprintf("unmet due: %d word(s) with no comprehensible sentence", len(sess.UnmetDue))))
	}
	return b.String()
}
