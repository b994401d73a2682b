package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/llm"
	"github.com/houshuang/alif/internal/repository"
)

// minBareLength is the floor a token must clear after punctuation and
// single-character-abbreviation stripping (spec §4.1 step (a)).
const minBareLength = 2

// Resolver implements the identity resolution pipeline of spec §4.1: turn
// a surface token into a canonical lemma id, and adjudicate whether two
// lemmas are the same learning unit.
type Resolver struct {
	lemmas    repository.LemmaRepo
	roots     repository.RootRepo
	variants  repository.VariantDecisionRepo
	knowledge repository.KnowledgeRepo
	analyzer  MorphAnalyzer
	oracle    llm.Oracle
	oracleOn  bool
	cache     *variantCache
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

// WithMorphAnalyzer overrides the default no-op analyzer.
func WithMorphAnalyzer(a MorphAnalyzer) Option {
	return func(r *Resolver) { r.analyzer = a }
}

// WithOracle wires the LLM variant-confirmation oracle. Without it, Resolve
// still works (the analyzer fallback stays available) and ConfirmVariant
// still answers from the cache, the durable store, or the root-mismatch
// check (Distinct); any other pair returns ErrOracleUnset.
func WithOracle(o llm.Oracle) Option {
	return func(r *Resolver) {
		r.oracle = o
		r.oracleOn = true
	}
}

// WithKnowledgeRepo wires the knowledge-record store MarkVariants needs to
// merge a variant's observational counters into its canonical record and
// retire the variant's FSRS card. Without it, MarkVariants still redirects
// lemma identity but skips the knowledge-record side entirely.
func WithKnowledgeRepo(k repository.KnowledgeRepo) Option {
	return func(r *Resolver) { r.knowledge = k }
}

// NewResolver builds a Resolver over the given repositories.
func NewResolver(lemmas repository.LemmaRepo, roots repository.RootRepo, variants repository.VariantDecisionRepo, opts ...Option) *Resolver {
	r := &Resolver{
		lemmas:   lemmas,
		roots:    roots,
		variants: variants,
		analyzer: noopAnalyzer{},
		cache:    newVariantCache(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements spec §4.1 steps (a)-(f), short-circuiting on the first
// hit. Returns (nil, nil) when the token legitimately resolves to nothing
// (too short, no match anywhere) — that is not an error, per spec §4.1
// "Failure semantics: resolver failures are non-fatal."
func (r *Resolver) Resolve(ctx context.Context, rawSurface string) (*string, error) {
	// (a) strip boundary punctuation and single-character abbreviations.
	surface := StripBoundaryPunctuation(rawSurface)
	if runeCount(surface) < minBareLength {
		return nil, nil
	}

	// (b) normalize for comparison only; stored lemmas are looked up by
	// their own bare form first, then by the normalized form.
	normalized := Normalize(surface)

	// (c) direct lookup of the bare form.
	if lemma, err := r.lookupEither(ctx, surface, normalized); err != nil {
		return nil, err
	} else if lemma != nil {
		return ptr(lemma.ID), nil
	}

	// (d) clitic-aware lookup, one strip at a time, in priority order.
	for _, candidate := range StripClitics(normalized) {
		if lemma, err := r.lookupEither(ctx, candidate, candidate); err != nil {
			return nil, err
		} else if lemma != nil {
			return ptr(lemma.ID), nil
		}
	}

	// (e) inflected-form lookup.
	if lemma, err := r.lemmas.GetByInflectedForm(ctx, surface); err == nil {
		return ptr(lemma.ID), nil
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("resolving inflected form: %w", err)
	}

	// (f) morphological analyzer fallback: prefer the analysis with the
	// highest likelihood whose lex matches a stored lemma.
	analyses := r.analyzer.Analyze(surface)
	var best *domain.Lemma
	var bestLikelihood float64
	for _, a := range analyses {
		lemma, err := r.lemmas.GetByBare(ctx, a.Lex)
		if err == repository.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving morphological analysis: %w", err)
		}
		if best == nil || a.Likelihood > bestLikelihood {
			best = lemma
			bestLikelihood = a.Likelihood
		}
	}
	if best != nil {
		return ptr(best.ID), nil
	}

	return nil, nil
}

func (r *Resolver) lookupEither(ctx context.Context, bare, normalized string) (*domain.Lemma, error) {
	lemma, err := r.lemmas.GetByBare(ctx, bare)
	if err == nil {
		return lemma, nil
	}
	if err != repository.ErrNotFound {
		return nil, fmt.Errorf("looking up lemma by bare form: %w", err)
	}
	if normalized == bare {
		return nil, nil
	}
	lemma, err = r.lemmas.GetByBare(ctx, normalized)
	if err == nil {
		return lemma, nil
	}
	if err != repository.ErrNotFound {
		return nil, fmt.Errorf("looking up lemma by normalized form: %w", err)
	}
	return nil, nil
}

// ErrOracleUnset is returned by ConfirmVariant when the cache and durable
// store both miss and no oracle is configured to break the tie.
var ErrOracleUnset = fmt.Errorf("identity: no variant oracle configured")

// ConfirmVariant resolves whether lemmaAID and lemmaBID are the same
// learning unit (spec §4.1 confirm_variant): cache, then durable store,
// then the LLM oracle. A root mismatch short-circuits to Distinct before
// ever consulting the oracle.
func (r *Resolver) ConfirmVariant(ctx context.Context, lemmaAID, lemmaBID string) (domain.VariantVerdict, error) {
	if verdict, ok := r.cache.get(lemmaAID, lemmaBID); ok {
		return verdict, nil
	}

	if decision, err := r.variants.Get(ctx, lemmaAID, lemmaBID); err == nil {
		r.cache.put(lemmaAID, lemmaBID, decision.Verdict)
		return decision.Verdict, nil
	} else if err != repository.ErrNotFound {
		return "", fmt.Errorf("looking up variant decision: %w", err)
	}

	lemmaA, err := r.lemmas.GetByID(ctx, lemmaAID)
	if err != nil {
		return "", fmt.Errorf("loading lemma a: %w", err)
	}
	lemmaB, err := r.lemmas.GetByID(ctx, lemmaBID)
	if err != nil {
		return "", fmt.Errorf("loading lemma b: %w", err)
	}

	if rootsMismatch(lemmaA, lemmaB) {
		return r.recordVerdict(ctx, lemmaAID, lemmaBID, domain.VariantDistinct)
	}

	if !r.oracleOn {
		return "", ErrOracleUnset
	}

	result, err := r.oracle.ConfirmVariant(ctx, llm.VariantConfirmRequest{
		LemmaABare: lemmaA.Bare, LemmaADiacritized: lemmaA.Diacritized, LemmaAGloss: lemmaA.Gloss,
		LemmaBBare: lemmaB.Bare, LemmaBDiacritized: lemmaB.Diacritized, LemmaBGloss: lemmaB.Gloss,
	})
	if err != nil {
		return "", fmt.Errorf("calling variant oracle: %w", err)
	}
	return r.recordVerdict(ctx, lemmaAID, lemmaBID, domain.VariantVerdict(result.Verdict))
}

func (r *Resolver) recordVerdict(ctx context.Context, lemmaAID, lemmaBID string, verdict domain.VariantVerdict) (domain.VariantVerdict, error) {
	decision := &domain.VariantDecision{LemmaAID: lemmaAID, LemmaBID: lemmaBID, Verdict: verdict, DecidedAt: time.Now().UTC()}
	if err := r.variants.Put(ctx, decision); err != nil {
		return "", fmt.Errorf("storing variant decision: %w", err)
	}
	r.cache.put(lemmaAID, lemmaBID, verdict)
	return verdict, nil
}

func rootsMismatch(a, b *domain.Lemma) bool {
	if a.RootID == nil || b.RootID == nil {
		return false
	}
	return *a.RootID != *b.RootID
}

// MarkVariants points each of variants at canonical, merging observational
// counters and retiring any FSRS card the variant holds (spec §4.1
// mark_variants). The knowledge-record merge is skipped when no
// KnowledgeRepo was wired (WithKnowledgeRepo) — lemma identity still
// redirects, but there is nothing to merge.
func (r *Resolver) MarkVariants(ctx context.Context, canonicalID string, variantIDs []string) error {
	var canonical *domain.KnowledgeRecord
	if r.knowledge != nil {
		rec, err := r.knowledge.GetByLemmaID(ctx, canonicalID)
		if err != nil && err != repository.ErrNotFound {
			return fmt.Errorf("loading canonical knowledge record: %w", err)
		}
		canonical = rec
	}

	canonicalDirty := false
	for _, variantID := range variantIDs {
		lemma, err := r.lemmas.GetByID(ctx, variantID)
		if err != nil {
			return fmt.Errorf("loading variant lemma %s: %w", variantID, err)
		}
		lemma.CanonicalLemmaID = ptr(canonicalID)
		if err := r.lemmas.Update(ctx, lemma); err != nil {
			return fmt.Errorf("updating variant lemma %s: %w", variantID, err)
		}

		if r.knowledge == nil {
			continue
		}
		variantRec, err := r.knowledge.GetByLemmaID(ctx, variantID)
		if err == repository.ErrNotFound {
			continue
		}
		if err != nil {
			return fmt.Errorf("loading variant knowledge record %s: %w", variantID, err)
		}

		if canonical != nil && variantRec.TimesSeen > 0 {
			if canonical.VariantStats == nil {
				canonical.VariantStats = make(map[string]int, 1)
			}
			canonical.VariantStats[lemma.Bare] += variantRec.TimesSeen
			canonicalDirty = true
		}

		variantRec.FSRSCard = nil
		if err := r.knowledge.Update(ctx, variantRec); err != nil {
			return fmt.Errorf("retiring variant knowledge record %s: %w", variantID, err)
		}
	}

	if canonicalDirty {
		if err := r.knowledge.Update(ctx, canonical); err != nil {
			return fmt.Errorf("merging counters into canonical knowledge record: %w", err)
		}
	}
	return nil
}

func ptr(s string) *string { return &s }
