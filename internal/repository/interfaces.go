package repository

import (
	"context"
	"time"

	"github.com/houshuang/alif/internal/domain"
)

// RootRepo persists Arabic consonantal roots.
type RootRepo interface {
	Create(ctx context.Context, r *domain.Root) error
	GetByID(ctx context.Context, id string) (*domain.Root, error)
	// ListSiblingLemmaIDs returns the ids of lemmas sharing rootID, used by
	// the material manager's grouping constraint (never pair two target
	// words sharing a root) and by the auto-introducer's sibling-
	// interference check.
	ListSiblingLemmaIDs(ctx context.Context, rootID string) ([]string, error)
}

// LemmaRepo persists canonical dictionary entries.
type LemmaRepo interface {
	Create(ctx context.Context, l *domain.Lemma) error
	GetByID(ctx context.Context, id string) (*domain.Lemma, error)
	GetByBare(ctx context.Context, bare string) (*domain.Lemma, error)
	// GetByInflectedForm looks up a lemma whose inflected-forms index
	// contains surface, per identity resolver step (e).
	GetByInflectedForm(ctx context.Context, surface string) (*domain.Lemma, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Lemma, error)
	Update(ctx context.Context, l *domain.Lemma) error
	// ListVariantsOf returns lemmas whose CanonicalLemmaID points at
	// canonicalID.
	ListVariantsOf(ctx context.Context, canonicalID string) ([]*domain.Lemma, error)
}

// EncounteredCandidate is a joined view used by the auto-introduction
// controller's word selector (spec §4.7).
type EncounteredCandidate struct {
	LemmaID       string
	Category      domain.WordCategory
	Source        domain.EntrySource
	FrequencyRank *int
	RootID        *string
}

// ComprehensibilityClass classifies a lemma for the comprehensibility gate
// (spec §4.6 step 4): consolidated lemmas count toward the known-fraction,
// fresh/unknown ones do not.
type ComprehensibilityClass int

const (
	ClassUnknown ComprehensibilityClass = iota
	ClassFreshAcquiring
	ClassConsolidated
)

// KnowledgeRepo is the durable, transactional state for scheduling.
type KnowledgeRepo interface {
	Create(ctx context.Context, r *domain.KnowledgeRecord) error
	GetByID(ctx context.Context, id string) (*domain.KnowledgeRecord, error)
	GetByLemmaID(ctx context.Context, lemmaID string) (*domain.KnowledgeRecord, error)
	Update(ctx context.Context, r *domain.KnowledgeRecord) error

	// ListByLemmaIDs returns the fan-out of records for a bounded cohort
	// of lemma ids (spec §4.2 "record fan-out for a cohort").
	ListByLemmaIDs(ctx context.Context, lemmaIDs []string) ([]*domain.KnowledgeRecord, error)

	// ListDueAcquiring returns acquiring-state records whose
	// AcquisitionNextDue is <= now.
	ListDueAcquiring(ctx context.Context, now time.Time) ([]*domain.KnowledgeRecord, error)

	// ListDueFSRS returns graduated records due, or due within window, at
	// now (spec §4.6 step 1: "FSRS-due or almost due within a small
	// window").
	ListDueFSRS(ctx context.Context, now time.Time, window time.Duration) ([]*domain.KnowledgeRecord, error)

	// ListFocusCohortFill returns up to cap FSRS-scheduled records not in
	// excludeLemmaIDs, oldest last review first (last_review_at ascending),
	// for the focus-cohort fill (spec §4.6 step 2). The records are not
	// ordered by stability.
	ListFocusCohortFill(ctx context.Context, cap int, excludeLemmaIDs []string) ([]*domain.KnowledgeRecord, error)

	// ClassifyComprehensibility classifies each of lemmaIDs per
	// ComprehensibilityClass from its record's state alone: learning or
	// known is consolidated, acquiring or lapsed is fresh, and a missing
	// record or any other state is unknown. No stability threshold applies.
	ClassifyComprehensibility(ctx context.Context, lemmaIDs []string) (map[string]ComprehensibilityClass, error)

	// ListEncounteredCandidates returns encountered-state words eligible
	// for auto-introduction (category already filtered by the caller).
	ListEncounteredCandidates(ctx context.Context) ([]EncounteredCandidate, error)

	// CountInBox counts acquiring-state records currently sitting in the
	// given box, for the box-1 soft cap.
	CountInBox(ctx context.Context, box int) (int, error)

	// CountRecentlyLapsedSiblings counts records among lemmaIDs that
	// lapsed within window of now, for the auto-introducer's sibling
	// interference check.
	CountRecentlyLapsedSiblings(ctx context.Context, lemmaIDs []string, now time.Time, window time.Duration) (int, error)

	// ListActiveTargetLemmaIDs returns the lemma ids of every non-variant
	// record in a schedulable state (acquiring or graduated, excluding
	// suspended), the universe the material pipeline's backfill stage
	// checks against each target word's per-word sentence minimum.
	ListActiveTargetLemmaIDs(ctx context.Context) ([]string, error)

	// ListSuspended returns every suspended-state record, the candidate
	// set the material pipeline's leech-cooldown reactivation stage tests
	// against LeechSuspendedAt + CooldownFor(LeechCount) (spec §4.4).
	ListSuspended(ctx context.Context) ([]*domain.KnowledgeRecord, error)
}

// SentenceRepo persists sentence material.
type SentenceRepo interface {
	Create(ctx context.Context, s *domain.Sentence) error
	GetByID(ctx context.Context, id string) (*domain.Sentence, error)
	Update(ctx context.Context, s *domain.Sentence) error
	Delete(ctx context.Context, id string) error

	ListActive(ctx context.Context) ([]*domain.Sentence, error)
	// ListActiveCovering returns active sentences whose tokens or target
	// list intersect lemmaIDs, the candidate set for session scoring.
	ListActiveCovering(ctx context.Context, lemmaIDs []string) ([]*domain.Sentence, error)
	// ListDormant returns inactive sentences with at least one unresolved
	// token, retried by the pipeline's token-mapping stage.
	ListDormant(ctx context.Context) ([]*domain.Sentence, error)

	CountActive(ctx context.Context) (int, error)
	CountActiveByTarget(ctx context.Context, lemmaID string) (int, error)

	// ListRetirementCandidates returns active sentences ordered by
	// retirement priority (never-shown stale first, then shown stale,
	// then oldest), for the pipeline's rotate/cap-enforcement stages.
	ListRetirementCandidates(ctx context.Context, staleLemmaIDs []string) ([]*domain.Sentence, error)
}

// ReviewLogRepo is the append-only review event log.
type ReviewLogRepo interface {
	// Append inserts the log entry, silently no-op'ing (idempotency) if
	// ClientReviewID already exists.
	Append(ctx context.Context, log *domain.ReviewLog) error
	Exists(ctx context.Context, clientReviewID string) (bool, error)
	Delete(ctx context.Context, id string) error

	// GetLatestForLemma returns the most recent review log entry for
	// lemmaID whose SessionID has sessionPrefix as a prefix, used by undo.
	GetLatestForLemma(ctx context.Context, lemmaID, sessionPrefix string) (*domain.ReviewLog, error)

	// ListRecent returns review logs at or after since, most recent first,
	// used to compute the accuracy-throttle window.
	ListRecent(ctx context.Context, since time.Time) ([]*domain.ReviewLog, error)

	ListByLemma(ctx context.Context, lemmaID string) ([]*domain.ReviewLog, error)
}

// VariantDecisionRepo is the durable cache of LLM variant-oracle verdicts.
type VariantDecisionRepo interface {
	Get(ctx context.Context, lemmaAID, lemmaBID string) (*domain.VariantDecision, error)
	Put(ctx context.Context, d *domain.VariantDecision) error
}
