package domain

import "time"

// KnowledgeRecord is the unit of scheduling: one per user per lemma.
//
// Invariants (enforced by the acquisition/FSRS schedulers, never by the
// store directly):
//
//	state = acquiring  iff  AcquisitionBox in {1,2,3} and FSRSCard == nil
//	state in {learning, known, lapsed}  implies FSRSCard != nil and GraduatedAt != nil
//	state = suspended  implies LeechSuspendedAt != nil
type KnowledgeRecord struct {
	ID       string
	LemmaID  string
	State    KnowledgeState

	AcquisitionBox         *int // 1, 2, 3, or nil outside acquiring
	AcquisitionNextDue     *time.Time
	AcquisitionStartedAt   *time.Time
	GraduatedAt            *time.Time

	FSRSCard []byte // opaque blob, nil until graduated

	TimesSeen    int
	TimesCorrect int

	LeechCount       int
	LeechSuspendedAt *time.Time

	LastReviewAt *time.Time

	// VariantStats counts surface-form occurrences redirected onto this
	// record from its variants. Observational only; never drives
	// scheduling.
	VariantStats map[string]int

	Source EntrySource

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAcquiring reports the acquiring-state invariant directly.
func (r KnowledgeRecord) IsAcquiring() bool {
	return r.State == StateAcquiring && r.AcquisitionBox != nil && r.FSRSCard == nil
}

// Accuracy returns TimesCorrect/TimesSeen, or 0 when there have been no
// reviews yet.
func (r KnowledgeRecord) Accuracy() float64 {
	if r.TimesSeen == 0 {
		return 0
	}
	return float64(r.TimesCorrect) / float64(r.TimesSeen)
}

// IsGraduated reports whether the record has left acquisition: it carries
// both an FSRS card and a graduation timestamp. The FSRS scheduler's
// submit path refuses records for which this is false.
func (r KnowledgeRecord) IsGraduated() bool {
	return r.FSRSCard != nil && r.GraduatedAt != nil
}
