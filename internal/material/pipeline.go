// Package material implements the sentence material manager of spec §4.5:
// a periodic pipeline that keeps a bounded active pool of sentences fed,
// graded, and mapped to lemmas, plus the just-in-time generator the
// session builder falls back to when a due word has no comprehensible
// active sentence. Structured the way the teacher's recommend pipeline
// (internal/service/recommend_pipeline.go) stages a multi-phase job as a
// sequence of named methods over one struct, rather than one monolithic
// function.
package material

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/identity"
	"github.com/houshuang/alif/internal/llm"
	alifpipeline "github.com/houshuang/alif/internal/pipeline"
	"github.com/houshuang/alif/internal/repository"
)

// Report summarizes one maintenance run, for logging and tests.
type Report struct {
	Retired     int
	Backfilled  int
	Rejected    int
	Mapped      int
	Dormant     int
	Reactivated int
}

// Enricher performs best-effort background enrichment (glosses,
// transliteration, memory hooks) of a lemma. Pipeline calls it
// fire-and-forget per spec §4.5 step 6: a failing or absent Enricher never
// blocks scheduling.
type Enricher interface {
	Enrich(ctx context.Context, lemma *domain.Lemma) error
}

type noopEnricher struct{}

func (noopEnricher) Enrich(context.Context, *domain.Lemma) error { return nil }

// Pipeline runs the sentence material manager's periodic maintenance job
// and its just-in-time generator.
type Pipeline struct {
	sentences repository.SentenceRepo
	knowledge repository.KnowledgeRepo
	lemmas    repository.LemmaRepo
	roots     repository.RootRepo
	resolver  *identity.Resolver
	oracle    llm.Oracle
	validator *Validator
	params    config.MaterialParams
	leech     config.LeechParams
	observer  alifpipeline.Observer
	enricher  Enricher
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithObserver wires a pipeline.Observer for phase/skip logging.
func WithObserver(o alifpipeline.Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithEnricher wires a background lemma enricher.
func WithEnricher(e Enricher) Option {
	return func(p *Pipeline) { p.enricher = e }
}

// New builds a Pipeline over the given collaborators.
func New(
	sentences repository.SentenceRepo,
	knowledge repository.KnowledgeRepo,
	lemmas repository.LemmaRepo,
	roots repository.RootRepo,
	resolver *identity.Resolver,
	oracle llm.Oracle,
	params config.MaterialParams,
	leechParams config.LeechParams,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		sentences: sentences,
		knowledge: knowledge,
		lemmas:    lemmas,
		roots:     roots,
		resolver:  resolver,
		oracle:    oracle,
		validator: NewValidator(oracle),
		params:    params,
		leech:     leechParams,
		observer:  alifpipeline.NoopObserver{},
		enricher:  noopEnricher{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the six stages of spec §4.5's periodic pipeline in order:
// leech-cooldown reactivation, rotate stale, enforce cap, backfill, quality
// audit (folded into backfill's per-sentence validation), token mapping,
// and enrichment. Each stage processes its items independently and
// logs-and-skips an item that fails; an error a stage returns for the
// whole run (such as a failed repository query) ends Run with that error.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{}

	reactivated, err := p.reactivateLeeches(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("reactivate leeches: %w", err)
	}
	report.Reactivated = reactivated
	p.observer.OnPhaseComplete(alifpipeline.PhaseEvent{Phase: "reactivate_leeches", ItemCount: reactivated})

	rotated, err := p.rotateStale(ctx)
	if err != nil {
		return nil, fmt.Errorf("rotate stale: %w", err)
	}
	report.Retired += rotated
	p.observer.OnPhaseComplete(alifpipeline.PhaseEvent{Phase: "rotate_stale", ItemCount: rotated})

	capped, err := p.enforceCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("enforce cap: %w", err)
	}
	report.Retired += capped
	p.observer.OnPhaseComplete(alifpipeline.PhaseEvent{Phase: "enforce_cap", ItemCount: capped})

	accepted, rejected, backfillTouched, err := p.backfill(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("backfill: %w", err)
	}
	report.Backfilled = accepted
	report.Rejected = rejected
	p.observer.OnPhaseComplete(alifpipeline.PhaseEvent{Phase: "backfill", ItemCount: accepted})

	mapped, dormant, mapTouched, err := p.mapTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("map tokens: %w", err)
	}
	report.Mapped = mapped
	report.Dormant = dormant
	p.observer.OnPhaseComplete(alifpipeline.PhaseEvent{Phase: "map_tokens", ItemCount: mapped})

	touched := append(backfillTouched, mapTouched...)
	p.enrichNewLemmas(ctx, touched)
	p.observer.OnPhaseComplete(alifpipeline.PhaseEvent{Phase: "enrichment", ItemCount: len(touched)})

	return report, nil
}

// rotateStale implements §4.5 step 1: retire active sentences whose
// scaffold words are all fully consolidated, preserving the per-target
// minimum.
func (p *Pipeline) rotateStale(ctx context.Context) (int, error) {
	active, err := p.sentences.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing active sentences: %w", err)
	}
	targetCounts := activeTargetCounts(active)

	retired := 0
	for _, s := range active {
		scaffold := s.ScaffoldLemmaIDs()
		if len(scaffold) == 0 {
			continue
		}
		classes, err := p.knowledge.ClassifyComprehensibility(ctx, scaffold)
		if err != nil {
			p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "rotate_stale", ItemID: s.ID, Reason: err.Error()})
			continue
		}
		if !allConsolidated(classes, scaffold) {
			continue
		}
		if wouldDropBelowMinimum(targetCounts, s.TargetLemmaIDs, p.params.MinSentencesPerTarget) {
			continue
		}
		s.Active = false
		if err := p.sentences.Update(ctx, s); err != nil {
			p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "rotate_stale", ItemID: s.ID, Reason: err.Error()})
			continue
		}
		for _, t := range s.TargetLemmaIDs {
			targetCounts[t]--
		}
		retired++
	}
	return retired, nil
}

// enforceCap implements §4.5 step 2: retire excess sentences by the
// repository's priority order until the active count clears the cap minus
// headroom, preserving the per-target minimum.
func (p *Pipeline) enforceCap(ctx context.Context) (int, error) {
	count, err := p.sentences.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting active sentences: %w", err)
	}
	limit := p.params.ActivePoolHardCap - p.params.ActivePoolHeadroom
	if count <= limit {
		return 0, nil
	}

	active, err := p.sentences.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing active sentences: %w", err)
	}
	targetCounts := activeTargetCounts(active)

	candidates, err := p.sentences.ListRetirementCandidates(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("listing retirement candidates: %w", err)
	}

	retired := 0
	for _, s := range candidates {
		if count-retired <= limit {
			break
		}
		if wouldDropBelowMinimum(targetCounts, s.TargetLemmaIDs, p.params.MinSentencesPerTarget) {
			continue
		}
		s.Active = false
		if err := p.sentences.Update(ctx, s); err != nil {
			p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "enforce_cap", ItemID: s.ID, Reason: err.Error()})
			continue
		}
		for _, t := range s.TargetLemmaIDs {
			targetCounts[t]--
		}
		retired++
	}
	return retired, nil
}

// backfill implements §4.5 step 3: request generation for target words
// below their per-word minimum, grouped 2-4 per sentence never pairing two
// words sharing a root, validating each generated sentence before it
// counts as accepted.
func (p *Pipeline) backfill(ctx context.Context, now time.Time) (accepted, rejected int, touchedLemmaIDs []string, err error) {
	targetIDs, err := p.knowledge.ListActiveTargetLemmaIDs(ctx)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("listing active target lemmas: %w", err)
	}

	active, err := p.sentences.ListActive(ctx)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("listing active sentences: %w", err)
	}
	counts := activeTargetCounts(active)

	lemmaByID := make(map[string]*domain.Lemma)
	var below []TargetCandidate
	for _, id := range targetIDs {
		if counts[id] >= p.params.MinSentencesPerTarget {
			continue
		}
		lemma, err := p.lemmas.GetByID(ctx, id)
		if err != nil {
			p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "backfill", ItemID: id, Reason: err.Error()})
			continue
		}
		lemmaByID[id] = lemma
		below = append(below, TargetCandidate{LemmaID: id, RootID: lemma.RootID})
	}
	if len(below) == 0 {
		return 0, 0, nil, nil
	}

	groups := GroupTargets(below, p.params.MinTargetWordsPerSentence, p.params.MaxTargetWordsPerSentence)
	known := p.knownPredicate(ctx)
	for _, group := range groups {
		s, err := p.generateAndValidate(ctx, group, lemmaByID, now, known)
		if err != nil {
			p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "backfill", ItemID: strings.Join(group, "+"), Reason: err.Error()})
			rejected++
			continue
		}
		accepted++
		touchedLemmaIDs = append(touchedLemmaIDs, s.TargetLemmaIDs...)
	}
	return accepted, rejected, touchedLemmaIDs, nil
}

// mapTokens implements §4.5 step 5's retry path: re-resolve unresolved
// tokens on dormant sentences, activating any that become fully resolved.
func (p *Pipeline) mapTokens(ctx context.Context) (mapped, dormantCount int, touchedLemmaIDs []string, err error) {
	dormants, err := p.sentences.ListDormant(ctx)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("listing dormant sentences: %w", err)
	}

	for _, s := range dormants {
		changed := false
		for i, t := range s.Tokens {
			if t.Resolved() {
				continue
			}
			lemmaID, rerr := p.resolver.Resolve(ctx, t.Surface)
			if rerr != nil {
				p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "map_tokens", ItemID: s.ID, Reason: rerr.Error()})
				continue
			}
			if lemmaID != nil {
				s.Tokens[i].LemmaID = lemmaID
				changed = true
				touchedLemmaIDs = append(touchedLemmaIDs, *lemmaID)
			}
		}
		if s.AllTokensResolved() {
			s.Active = true
			mapped++
		} else {
			dormantCount++
		}
		if changed || s.Active {
			if err := p.sentences.Update(ctx, s); err != nil {
				p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "map_tokens", ItemID: s.ID, Reason: err.Error()})
			}
		}
	}
	return mapped, dormantCount, touchedLemmaIDs, nil
}

func (p *Pipeline) enrichNewLemmas(ctx context.Context, lemmaIDs []string) {
	seen := make(map[string]bool, len(lemmaIDs))
	for _, id := range lemmaIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		lemma, err := p.lemmas.GetByID(ctx, id)
		if err != nil || lemma.Gloss != "" {
			continue
		}
		if err := p.enricher.Enrich(ctx, lemma); err != nil {
			p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "enrichment", ItemID: id, Reason: err.Error()})
			continue
		}
		if err := p.lemmas.Update(ctx, lemma); err != nil {
			p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "enrichment", ItemID: id, Reason: err.Error()})
		}
	}
}

// ErrJITBudgetExhausted is returned by GenerateJIT once the per-session
// generation budget reaches zero (spec §4.5 "capped at a small per-session
// budget").
var ErrJITBudgetExhausted = fmt.Errorf("material: per-session JIT generation budget exhausted")

// GenerateJIT generates, validates, and activates a single-target sentence
// for targetLemmaID during session build. budget is decremented on every
// attempt, successful or not, since each attempt spends one real
// generation call.
func (p *Pipeline) GenerateJIT(ctx context.Context, targetLemmaID string, budget *int) (*domain.Sentence, error) {
	if *budget <= 0 {
		return nil, ErrJITBudgetExhausted
	}
	lemma, err := p.lemmas.GetByID(ctx, targetLemmaID)
	if err != nil {
		return nil, fmt.Errorf("loading target lemma: %w", err)
	}
	*budget--

	known := p.knownPredicate(ctx)
	return p.generateAndValidate(ctx, []string{targetLemmaID}, map[string]*domain.Lemma{targetLemmaID: lemma}, time.Now().UTC(), known)
}

func (p *Pipeline) generateAndValidate(ctx context.Context, targetLemmaIDs []string, lemmaByID map[string]*domain.Lemma, now time.Time, known func(string) bool) (*domain.Sentence, error) {
	if p.oracle == nil {
		return nil, fmt.Errorf("material: no generation oracle configured")
	}

	targetBares := make([]string, len(targetLemmaIDs))
	for i, id := range targetLemmaIDs {
		targetBares[i] = lemmaByID[id].Bare
	}

	genResult, err := p.oracle.GenerateSentence(ctx, llm.SentenceGenerateRequest{
		TargetBares:    targetBares,
		MinTargetWords: p.params.MinTargetWordsPerSentence,
		MaxTargetWords: p.params.MaxTargetWordsPerSentence,
	})
	if err != nil {
		return nil, fmt.Errorf("generating sentence: %w", err)
	}

	s := &domain.Sentence{
		ID:             uuid.NewString(),
		Arabic:         genResult.Arabic,
		English:        genResult.English,
		Source:         domain.SourceLLMGenerated,
		TargetLemmaIDs: targetLemmaIDs,
		CreatedAt:      now,
	}
	if err := p.mapTokensForSentence(ctx, s); err != nil {
		return nil, fmt.Errorf("mapping tokens: %w", err)
	}

	if !s.AllTokensResolved() {
		if err := p.sentences.Create(ctx, s); err != nil {
			return nil, fmt.Errorf("storing dormant sentence: %w", err)
		}
		return nil, fmt.Errorf("sentence has unresolved tokens, stored dormant for retry")
	}

	if err := p.validator.RuleCheck(s, known); err != nil {
		return nil, err
	}

	verdict := p.validator.SemanticCheck(ctx, s, targetBares, nil)
	if !verdict.Approved {
		return nil, fmt.Errorf("rejected by reviewer: %s", verdict.Reason)
	}

	s.Active = true
	if err := p.sentences.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("storing sentence: %w", err)
	}
	return s, nil
}

func (p *Pipeline) mapTokensForSentence(ctx context.Context, s *domain.Sentence) error {
	words := strings.Fields(s.Arabic)
	tokens := make([]domain.SentenceToken, len(words))
	for i, w := range words {
		lemmaID, err := p.resolver.Resolve(ctx, w)
		if err != nil {
			return fmt.Errorf("resolving token %q: %w", w, err)
		}
		tokens[i] = domain.SentenceToken{Position: i, Surface: w, LemmaID: lemmaID}
	}
	s.Tokens = tokens
	return nil
}

func (p *Pipeline) knownPredicate(ctx context.Context) func(string) bool {
	cache := make(map[string]bool)
	return func(lemmaID string) bool {
		if v, ok := cache[lemmaID]; ok {
			return v
		}
		classes, err := p.knowledge.ClassifyComprehensibility(ctx, []string{lemmaID})
		known := err == nil && classes[lemmaID] != repository.ClassUnknown
		cache[lemmaID] = known
		return known
	}
}

func activeTargetCounts(sentences []*domain.Sentence) map[string]int {
	counts := make(map[string]int)
	for _, s := range sentences {
		for _, t := range s.TargetLemmaIDs {
			counts[t]++
		}
	}
	return counts
}

func allConsolidated(classes map[string]repository.ComprehensibilityClass, lemmaIDs []string) bool {
	for _, id := range lemmaIDs {
		if classes[id] != repository.ClassConsolidated {
			return false
		}
	}
	return true
}

func wouldDropBelowMinimum(counts map[string]int, targetLemmaIDs []string, minimum int) bool {
	for _, id := range targetLemmaIDs {
		if counts[id]-1 < minimum {
			return true
		}
	}
	return false
}
