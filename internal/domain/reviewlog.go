package domain

import "time"

// ReviewLog is an immutable, append-only record of a single review event.
// It carries a pre-review snapshot of the KnowledgeRecord sufficient to
// undo the latest review (spec §3, §4.4 undo_last).
type ReviewLog struct {
	ID               string
	LemmaID          string
	Rating           Rating
	IsAcquisitionStep bool // true if this was a Leitner-box step, false if an FSRS review
	PreReviewSnapshot KnowledgeRecord
	SessionID         string
	ClientReviewID    string // idempotency key, session-prefixed
	ReviewedAt        time.Time
	CreditType        CreditType
}

// VariantDecision is the cached, append-only result of the LLM variant
// oracle for an ordered (lemma_a, lemma_b) pair.
type VariantDecision struct {
	LemmaAID string
	LemmaBID string
	Verdict  VariantVerdict
	DecidedAt time.Time
}

// OrderedPairKey returns the canonical cache/storage key for a variant
// decision: the two lemma ids in a stable order so (a,b) and (b,a) collide
// on the same row.
func OrderedPairKey(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}
