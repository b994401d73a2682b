package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/session"
)

func newReviewCmd(app *App) *cobra.Command {
	var size int
	c := &cobra.Command{
		Use:   "review",
		Short: "Fetch the next session and review it card by card",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(app, size)
		},
	}
	c.Flags().IntVar(&size, "size", 0, "requested session size (0 = configured default)")
	return c
}

// runReview drives one full session: build, then walk each item in order
// asking the user to rate comprehension (and, if imperfect, which words
// tripped them up), submitting credit after every card exactly as spec
// §4.6 describes. The session build itself runs inside a tiny bubbletea
// program showing a spinner (grounded on theRebelliousNerd-codenerd's
// chat.Model spinner.Tick wiring) since BuildSession may block on a
// just-in-time generation call to the LLM oracle.
func runReview(app *App, size int) error {
	sess, err := buildSessionWithSpinner(app, size)
	if err != nil {
		return fmt.Errorf("building session: %w", err)
	}
	if sess.Size() == 0 {
		fmt.Println(styleDim.Render("no due obligations right now"))
		return nil
	}

	fmt.Printf("%s\n\n", styleHeader.Render(fmt.Sprintf("%d card(s) to review", sess.Size())))

	now := time.Now
	for i, item := range sess.Items {
		if err := reviewOneCard(app, sess, i, item, now()); err != nil {
			return fmt.Errorf("reviewing card %d: %w", i+1, err)
		}
	}

	fmt.Println(styleGreen.Render("session complete"))
	if len(sess.UnmetDue) > 0 {
		fmt.Printf("%s\n", styleYellow.Render(fmt.Sprintf("%d due word(s) had no comprehensible sentence this time", len(sess.UnmetDue))))
	}
	return nil
}

func reviewOneCard(app *App, sess *session.Session, index int, item session.Item, now time.Time) error {
	fmt.Printf("%s\n", styleDim.Render(fmt.Sprintf("card %d/%d", index+1, sess.Size())))
	fmt.Printf("  %s\n", styleBold.Render(item.Sentence.Arabic))
	fmt.Printf("  %s\n\n", styleDim.Render(item.Sentence.English))

	var ratingStr string
	ratingForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How well did you understand this sentence?").
				Options(
					huh.NewOption("Understood", string(domain.ComprehensionUnderstood)),
					huh.NewOption("Partial", string(domain.ComprehensionPartial)),
					huh.NewOption("No idea", string(domain.ComprehensionNoIdea)),
				).
				Value(&ratingStr),
		),
	).WithTheme(alifHuhTheme()).WithShowHelp(false)
	if err := ratingForm.Run(); err != nil {
		return err
	}
	rating := domain.ComprehensionRating(ratingStr)

	var missed []string
	if rating != domain.ComprehensionUnderstood && len(item.Sentence.Tokens) > 0 {
		options := missedWordOptions(item.Sentence)
		if len(options) > 0 {
			missForm := huh.NewForm(
				huh.NewGroup(
					huh.NewMultiSelect[string]().
						Title("Which word(s) tripped you up? (optional)").
						Options(options...).
						Value(&missed),
				),
			).WithTheme(alifHuhTheme()).WithShowHelp(false)
			if err := missForm.Run(); err != nil {
				return err
			}
		}
	}

	result, err := app.Builder.SubmitReview(context.Background(), session.SubmitReviewRequest{
		SessionID:           sess.ID,
		Sentence:            item.Sentence,
		ComprehensionRating: rating,
		MissedLemmaIDs:      missed,
		Now:                 now,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  %s\n\n", styleDim.Render(fmt.Sprintf("%d word(s) credited", len(result.Records))))
	return nil
}

// missedWordOptions lists the sentence's distinct resolved content tokens
// as huh options keyed by lemma id, for the "which word tripped you up"
// multi-select.
func missedWordOptions(s *domain.Sentence) []huh.Option[string] {
	seen := make(map[string]bool, len(s.Tokens))
	var opts []huh.Option[string]
	for _, t := range s.Tokens {
		if t.LemmaID == nil || seen[*t.LemmaID] {
			continue
		}
		seen[*t.LemmaID] = true
		opts = append(opts, huh.NewOption(t.Surface, *t.LemmaID))
	}
	return opts
}

// buildSessionResultMsg carries BuildSession's outcome back into the
// bubbletea loading program.
type buildSessionResultMsg struct {
	sess *session.Session
	err  error
}

func buildSessionCmd(app *App, size int) tea.Cmd {
	return func() tea.Msg {
		sess, err := app.Builder.BuildSession(context.Background(), time.Now(), size)
		return buildSessionResultMsg{sess: sess, err: err}
	}
}

// loadingModel is a minimal bubbletea Model: a spinner plus a message,
// exiting as soon as the session build completes. Kept deliberately
// smaller than the teacher's appModel (internal/cli/app_model.go), which
// manages a whole view stack — here there is exactly one transient state
// to show.
type loadingModel struct {
	spin   spinner.Model
	app    *App
	size   int
	result buildSessionResultMsg
	done   bool
}

func newLoadingModel(app *App, size int) loadingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = stylePurple
	return loadingModel{spin: s, app: app, size: size}
}

func (m loadingModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, buildSessionCmd(m.app, m.size))
}

func (m loadingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case buildSessionResultMsg:
		m.result = msg
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.result = buildSessionResultMsg{err: fmt.Errorf("cancelled")}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m loadingModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spin.View(), styleDim.Render("building session..."))
}

// buildSessionWithSpinner runs the bubbletea loadingModel to completion and
// returns its result, the one place this package exercises a bare
// bubbletea.Program rather than going through huh's own Program wrapping.
func buildSessionWithSpinner(app *App, size int) (*session.Session, error) {
	final, err := tea.NewProgram(newLoadingModel(app, size)).Run()
	if err != nil {
		return nil, err
	}
	lm := final.(loadingModel)
	if lm.result.err != nil {
		return nil, lm.result.err
	}
	return lm.result.sess, nil
}
