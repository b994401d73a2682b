package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/houshuang/alif/internal/autointro"
	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/fsrs"
	"github.com/houshuang/alif/internal/material"
	"github.com/houshuang/alif/internal/repository"
	"github.com/houshuang/alif/internal/scheduler"
)

// Builder is the top-level session orchestrator (spec §4.6). It owns no
// durable state of its own; it reads through the repositories and the two
// schedulers and asks the material pipeline for sentences.
type Builder struct {
	knowledge repository.KnowledgeRepo
	sentences repository.SentenceRepo
	lemmas    repository.LemmaRepo
	logs      repository.ReviewLogRepo

	fsrsScheduler *fsrs.Scheduler
	pipeline      *material.Pipeline
	autoIntro     *autointro.Controller

	params         config.SessionParams
	materialParams config.MaterialParams
	acqParams      config.AcquisitionParams
	fsrsParams     config.FSRSParams
	leechParams    config.LeechParams
	ratings        config.RatingMap
	weights        scheduler.Weights
}

// New builds a Builder over the given collaborators and parameters.
func New(
	knowledge repository.KnowledgeRepo,
	sentences repository.SentenceRepo,
	lemmas repository.LemmaRepo,
	logs repository.ReviewLogRepo,
	fsrsScheduler *fsrs.Scheduler,
	pipeline *material.Pipeline,
	autoIntro *autointro.Controller,
	params config.SchedulerParams,
) *Builder {
	return &Builder{
		knowledge:      knowledge,
		sentences:      sentences,
		lemmas:         lemmas,
		logs:           logs,
		fsrsScheduler:  fsrsScheduler,
		pipeline:       pipeline,
		autoIntro:      autoIntro,
		params:         params.Session,
		materialParams: params.Material,
		acqParams:      params.Acquisition,
		fsrsParams:     params.FSRS,
		leechParams:    params.Leech,
		ratings:        params.Ratings,
		weights:        scheduler.DefaultWeights(),
	}
}

// BuildSession produces an ordered session of up to requestedSize items,
// implementing spec §4.6 steps 1-9 as one call. requestedSize <= 0 uses
// the configured default size.
func (b *Builder) BuildSession(ctx context.Context, now time.Time, requestedSize int) (*Session, error) {
	targetSize := clampSize(requestedSize, b.params)

	// Step 1: gather due.
	acquiringRecs, fsrsDueRecs, err := b.gatherDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("gathering due records: %w", err)
	}

	// Step 2: focus cohort.
	acquiringIDs := recordLemmaIDs(acquiringRecs)
	fsrsDueInCohort, err := b.restrictToFocusCohort(ctx, acquiringIDs, fsrsDueRecs)
	if err != nil {
		return nil, fmt.Errorf("computing focus cohort: %w", err)
	}
	dueLemmaIDs := dedupAppend(acquiringIDs, recordLemmaIDs(fsrsDueInCohort))

	if len(dueLemmaIDs) == 0 {
		return &Session{ID: uuid.NewString(), GeneratedAt: now}, nil
	}

	// Step 3: candidate sentences.
	candidates, err := b.sentences.ListActiveCovering(ctx, dueLemmaIDs)
	if err != nil {
		return nil, fmt.Errorf("listing candidate sentences: %w", err)
	}

	// Step 4: comprehensibility gate.
	gated, err := b.comprehensibilityGate(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("applying comprehensibility gate: %w", err)
	}

	// Step 5: score.
	scoringInputs, err := b.scoreCandidates(ctx, gated, fsrsDueInCohort, now)
	if err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}

	// Step 6: set cover.
	picks := scheduler.SetCover(scoringInputs, dueLemmaIDs, targetSize)
	items, covered := picksToItems(picks, candidates, acquiringIDs)

	// Step 7: acquisition repetition.
	items = b.ensureAcquisitionRepetition(items, covered, acquiringIDs, gated)

	// Step 8: fill.
	jitBudget := b.jitBudget()
	items, err = b.fill(ctx, now, items, dueLemmaIDs, covered, targetSize, &jitBudget)
	if err != nil {
		return nil, fmt.Errorf("filling session: %w", err)
	}

	unmet := unmetDue(dueLemmaIDs, covered)

	// Step 9: ordering.
	ordered := orderItems(items)

	return &Session{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Items:       ordered,
		UnmetDue:    unmet,
	}, nil
}

func clampSize(requested int, params config.SessionParams) int {
	size := requested
	if size <= 0 {
		size = params.DefaultSize
	}
	if params.MinSize > 0 && size < params.MinSize {
		size = params.MinSize
	}
	if params.MaxSize > 0 && size > params.MaxSize {
		size = params.MaxSize
	}
	return size
}

// gatherDue implements step 1: due acquiring and due-or-almost-due FSRS
// records, with variants and suspended records filtered out.
func (b *Builder) gatherDue(ctx context.Context, now time.Time) ([]*domain.KnowledgeRecord, []*domain.KnowledgeRecord, error) {
	acquiring, err := b.knowledge.ListDueAcquiring(ctx, now)
	if err != nil {
		return nil, nil, fmt.Errorf("listing due acquiring records: %w", err)
	}
	fsrsDue, err := b.knowledge.ListDueFSRS(ctx, now, b.params.AlmostDueWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("listing due fsrs records: %w", err)
	}

	acquiring, err = b.filterSchedulable(ctx, acquiring)
	if err != nil {
		return nil, nil, err
	}
	fsrsDue, err = b.filterSchedulable(ctx, fsrsDue)
	if err != nil {
		return nil, nil, err
	}
	return acquiring, fsrsDue, nil
}

// filterSchedulable drops suspended records and records whose lemma is a
// variant (variants never receive independent scheduling, spec §3).
func (b *Builder) filterSchedulable(ctx context.Context, recs []*domain.KnowledgeRecord) ([]*domain.KnowledgeRecord, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	ids := recordLemmaIDs(recs)
	lemmasByID, err := b.lemmasByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, r := range recs {
		if r.State == domain.StateSuspended {
			continue
		}
		l, ok := lemmasByID[r.LemmaID]
		if ok && l.IsVariant() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *Builder) lemmasByID(ctx context.Context, ids []string) (map[string]*domain.Lemma, error) {
	lemmas, err := b.lemmas.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading lemmas: %w", err)
	}
	out := make(map[string]*domain.Lemma, len(lemmas))
	for _, l := range lemmas {
		out[l.ID] = l
	}
	return out, nil
}

// restrictToFocusCohort implements step 2: the FSRS-due list is narrowed
// to the rolling ≤FocusCohortCap cohort. Acquiring words are always in the
// cohort; the rest of the cohort is filled by ListFocusCohortFill, which
// takes FSRS-scheduled records oldest last review first (not by
// stability), and only due records that land inside that cohort are kept
// for this session.
func (b *Builder) restrictToFocusCohort(ctx context.Context, acquiringIDs []string, fsrsDue []*domain.KnowledgeRecord) ([]*domain.KnowledgeRecord, error) {
	if b.params.FocusCohortCap <= 0 {
		return fsrsDue, nil
	}
	remaining := b.params.FocusCohortCap - len(acquiringIDs)
	if remaining < 0 {
		remaining = 0
	}
	cohortFill, err := b.knowledge.ListFocusCohortFill(ctx, remaining, acquiringIDs)
	if err != nil {
		return nil, fmt.Errorf("filling focus cohort: %w", err)
	}
	cohort := make(map[string]bool, len(acquiringIDs)+len(cohortFill))
	for _, id := range acquiringIDs {
		cohort[id] = true
	}
	for _, r := range cohortFill {
		cohort[r.LemmaID] = true
	}

	var out []*domain.KnowledgeRecord
	for _, r := range fsrsDue {
		if cohort[r.LemmaID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// comprehensibilityGate implements step 4: reject sentences where fewer
// than ComprehensibilityFraction of scaffold tokens are consolidated.
func (b *Builder) comprehensibilityGate(ctx context.Context, candidates []*domain.Sentence) ([]*domain.Sentence, error) {
	var out []*domain.Sentence
	for _, s := range candidates {
		checkIDs := s.ScaffoldLemmaIDs()
		if b.params.ComprehensibilityCountsTargets {
			checkIDs = append(append([]string{}, checkIDs...), s.TargetLemmaIDs...)
		}
		if len(checkIDs) == 0 {
			out = append(out, s)
			continue
		}
		classes, err := b.knowledge.ClassifyComprehensibility(ctx, checkIDs)
		if err != nil {
			return nil, fmt.Errorf("classifying comprehensibility: %w", err)
		}
		consolidated := 0
		for _, id := range checkIDs {
			if classes[id] == repository.ClassConsolidated {
				consolidated++
			}
		}
		fraction := float64(consolidated) / float64(len(checkIDs))
		if fraction >= b.params.ComprehensibilityFraction {
			out = append(out, s)
		}
	}
	return out, nil
}

// scoreCandidates implements step 5: builds each candidate's ScoringInput,
// including the due-quality urgency signal (1 for a due acquiring word, 1
// minus retrievability for an FSRS word) and scaffold recency counts.
func (b *Builder) scoreCandidates(ctx context.Context, candidates []*domain.Sentence, fsrsDue []*domain.KnowledgeRecord, now time.Time) ([]scheduler.ScoringInput, error) {
	dueQuality := make(map[string]float64, len(fsrsDue))
	for _, r := range fsrsDue {
		if !r.IsGraduated() {
			continue
		}
		card, err := fsrs.DecodeCard(r.FSRSCard)
		if err != nil {
			continue
		}
		dueQuality[r.LemmaID] = 1.0 - b.fsrsScheduler.Retrievability(card, now)
	}

	var allScaffold []string
	for _, s := range candidates {
		allScaffold = append(allScaffold, s.ScaffoldLemmaIDs()...)
	}
	scaffoldRecs, err := b.knowledge.ListByLemmaIDs(ctx, allScaffold)
	if err != nil {
		return nil, fmt.Errorf("loading scaffold records: %w", err)
	}
	timesSeen := make(map[string]int, len(scaffoldRecs))
	for _, r := range scaffoldRecs {
		timesSeen[r.LemmaID] = r.TimesSeen
	}

	inputs := make([]scheduler.ScoringInput, 0, len(candidates))
	for _, s := range candidates {
		inputs = append(inputs, scheduler.ScoringInput{
			SentenceID:        s.ID,
			TargetLemmaIDs:    s.TargetLemmaIDs,
			ScaffoldLemmaIDs:  s.ScaffoldLemmaIDs(),
			TimesShown:        s.TimesShown,
			Source:            s.Source,
			ScaffoldTimesSeen: timesSeen,
			DueQuality:        dueQuality,
			Weights:           b.weights,
		})
	}
	return inputs, nil
}

func (b *Builder) jitBudget() int {
	return b.materialParams.JITGenerationBudgetPerSession
}

func recordLemmaIDs(recs []*domain.KnowledgeRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.LemmaID)
	}
	return out
}

func dedupAppend(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, id := range list {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func unmetDue(dueLemmaIDs []string, covered map[string]bool) []string {
	var out []string
	for _, id := range dueLemmaIDs {
		if !covered[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
