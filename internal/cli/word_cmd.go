package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/fsrs"
)

func newWordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Look up or manage an individual lemma",
	}
	cmd.AddCommand(newWordLookupCmd(app), newWordSuspendCmd(app), newWordMergeCmd(app))
	return cmd
}

func newWordLookupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <bare form>",
		Short: "Print a lemma's dictionary entry and current knowledge record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			lemma, err := app.Lemmas.GetByBare(ctx, args[0])
			if err != nil {
				return fmt.Errorf("looking up %q: %w", args[0], err)
			}
			fmt.Print(formatWordLookup(app, ctx, lemma))
			return nil
		},
	}
}

func formatWordLookup(app *App, ctx context.Context, lemma *domain.Lemma) string {
	out := fmt.Sprintf("%s  %s\n", styleBold.Render(lemma.Bare), styleDim.Render(lemma.Gloss))
	if lemma.IsVariant() {
		out += styleYellow.Render(fmt.Sprintf("variant of lemma %s — not independently scheduled\n", *lemma.CanonicalLemmaID))
		return out
	}
	rec, err := app.Knowledge.GetByLemmaID(ctx, lemma.ID)
	if err != nil {
		out += styleDim.Render("no knowledge record yet (encountered via ingest, never reviewed)\n")
		return out
	}
	out += fmt.Sprintf("state: %s  seen: %d  correct: %d  accuracy: %.0f%%\n",
		stateStyle(rec.State).Render(string(rec.State)), rec.TimesSeen, rec.TimesCorrect, rec.Accuracy()*100)
	if rec.IsAcquiring() {
		out += fmt.Sprintf("acquisition box %d, next due %s\n", *rec.AcquisitionBox, rec.AcquisitionNextDue.Format(time.RFC3339))
	}
	if rec.FSRSCard != nil {
		if card, err := fsrs.DecodeCard(rec.FSRSCard); err == nil {
			out += fmt.Sprintf("stability: %.1fd  difficulty: %.1f  reps: %d  lapses: %d\n",
				card.Stability, card.Difficulty, card.Reps, card.Lapses)
		}
	}
	if rec.LeechCount > 0 {
		out += styleRed.Render(fmt.Sprintf("leeched %d time(s)\n", rec.LeechCount))
	}
	return out
}

func stateStyle(s domain.KnowledgeState) lipgloss.Style {
	switch s {
	case domain.StateSuspended, domain.StateLapsed:
		return styleRed
	case domain.StateKnown:
		return styleGreen
	case domain.StateAcquiring:
		return styleYellow
	default:
		return styleBlue
	}
}

func newWordSuspendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suspend <bare form>",
		Short: "Manually suspend a word (reversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			lemma, err := app.Lemmas.GetByBare(ctx, args[0])
			if err != nil {
				return fmt.Errorf("looking up %q: %w", args[0], err)
			}
			rec, err := app.Knowledge.GetByLemmaID(ctx, lemma.ID)
			if err != nil {
				return fmt.Errorf("loading knowledge record: %w", err)
			}
			now := time.Now()
			rec.State = domain.StateSuspended
			rec.LeechSuspendedAt = &now
			if err := app.Knowledge.Update(ctx, rec); err != nil {
				return fmt.Errorf("suspending %q: %w", args[0], err)
			}
			fmt.Println(styleGreen.Render(fmt.Sprintf("%s suspended", lemma.Bare)))
			return nil
		},
	}
}

// newWordMergeCmd implements spec §4.1's mark_variants operation end to
// end: confirm the pair is the same learning unit (cache/durable-store/
// oracle, via Resolver.ConfirmVariant), then redirect the variant at the
// canonical lemma and fold its observational counters in
// (Resolver.MarkVariants).
func newWordMergeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <variant bare form> <canonical bare form>",
		Short: "Confirm two lemmas are the same learning unit and redirect the variant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			variant, err := app.Lemmas.GetByBare(ctx, args[0])
			if err != nil {
				return fmt.Errorf("looking up %q: %w", args[0], err)
			}
			canonical, err := app.Lemmas.GetByBare(ctx, args[1])
			if err != nil {
				return fmt.Errorf("looking up %q: %w", args[1], err)
			}

			verdict, err := app.Resolver.ConfirmVariant(ctx, variant.ID, canonical.ID)
			if err != nil {
				return fmt.Errorf("confirming variant: %w", err)
			}
			if verdict != domain.VariantEquivalent {
				fmt.Println(styleYellow.Render(fmt.Sprintf("%s and %s judged distinct, not merged", variant.Bare, canonical.Bare)))
				return nil
			}

			if err := app.Resolver.MarkVariants(ctx, canonical.ID, []string{variant.ID}); err != nil {
				return fmt.Errorf("marking variant: %w", err)
			}
			fmt.Println(styleGreen.Render(fmt.Sprintf("%s merged into %s", variant.Bare, canonical.Bare)))
			return nil
		},
	}
}
