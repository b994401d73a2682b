package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/houshuang/alif/internal/domain"
)

// Lemma options

// LemmaOption mutates a lemma built by NewTestLemma, the same
// functional-options builder shape the teacher used for its domain
// fixtures (project/node/work-item), carried over for alif's own entities
// (lemma/knowledge record/sentence/root).
type LemmaOption func(*domain.Lemma)

func WithRootID(id string) LemmaOption {
	return func(l *domain.Lemma) { l.RootID = &id }
}

func WithCategory(c domain.WordCategory) LemmaOption {
	return func(l *domain.Lemma) { l.Category = c }
}

func WithFrequencyRank(r int) LemmaOption {
	return func(l *domain.Lemma) { l.FrequencyRank = &r }
}

func WithCanonicalLemma(id string) LemmaOption {
	return func(l *domain.Lemma) { l.CanonicalLemmaID = &id }
}

func WithInflectedForm(surface, role string) LemmaOption {
	return func(l *domain.Lemma) {
		l.InflectedForms = append(l.InflectedForms, domain.InflectedForm{Surface: surface, Role: role})
	}
}

// NewTestLemma builds a standard-category noun lemma with the given bare
// form and gloss and a fresh uuid id.
func NewTestLemma(bare, gloss string, opts ...LemmaOption) *domain.Lemma {
	l := &domain.Lemma{
		ID:       uuid.New().String(),
		Bare:     bare,
		Gloss:    gloss,
		POS:      "noun",
		Category: domain.CategoryStandard,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root options

type RootOption func(*domain.Root)

func NewTestRoot(radicals, gloss string, opts ...RootOption) *domain.Root {
	r := &domain.Root{
		ID:       uuid.New().String(),
		Radicals: []rune(radicals),
		Gloss:    gloss,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KnowledgeRecord options

type KnowledgeOption func(*domain.KnowledgeRecord)

func WithAcquisitionBox(box int, nextDue time.Time) KnowledgeOption {
	return func(r *domain.KnowledgeRecord) {
		r.State = domain.StateAcquiring
		r.AcquisitionBox = &box
		r.AcquisitionNextDue = &nextDue
	}
}

func WithFSRSCard(blob []byte, graduatedAt time.Time) KnowledgeOption {
	return func(r *domain.KnowledgeRecord) {
		r.State = domain.StateLearning
		r.FSRSCard = blob
		r.GraduatedAt = &graduatedAt
		r.AcquisitionBox = nil
		r.AcquisitionNextDue = nil
	}
}

func WithCounters(seen, correct int) KnowledgeOption {
	return func(r *domain.KnowledgeRecord) {
		r.TimesSeen = seen
		r.TimesCorrect = correct
	}
}

func WithLeech(count int, suspendedAt time.Time) KnowledgeOption {
	return func(r *domain.KnowledgeRecord) {
		r.State = domain.StateSuspended
		r.LeechCount = count
		r.LeechSuspendedAt = &suspendedAt
	}
}

func WithEntrySource(s domain.EntrySource) KnowledgeOption {
	return func(r *domain.KnowledgeRecord) { r.Source = s }
}

// NewTestKnowledgeRecord builds an encountered-state record for lemmaID;
// apply WithAcquisitionBox/WithFSRSCard/WithLeech to move it into another
// state, mirroring the invariants in domain.KnowledgeRecord's doc comment.
func NewTestKnowledgeRecord(lemmaID string, opts ...KnowledgeOption) *domain.KnowledgeRecord {
	now := time.Now().UTC()
	r := &domain.KnowledgeRecord{
		ID:        uuid.New().String(),
		LemmaID:   lemmaID,
		State:     domain.StateEncountered,
		Source:    domain.EntryManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sentence options

type SentenceOption func(*domain.Sentence)

func WithSource(s domain.SentenceSource) SentenceOption {
	return func(s2 *domain.Sentence) { s2.Source = s }
}

func WithPageNumber(n int) SentenceOption {
	return func(s *domain.Sentence) { s.PageNumber = &n }
}

func WithTimesShown(n int) SentenceOption {
	return func(s *domain.Sentence) { s.TimesShown = n }
}

func WithInactive() SentenceOption {
	return func(s *domain.Sentence) { s.Active = false }
}

// NewTestSentence builds an active, fully-resolved sentence whose tokens
// are targetLemmaIDs followed by scaffoldLemmaIDs, in order, each token's
// surface form defaulting to its lemma id (tests that care about surface
// text construct tokens directly instead).
func NewTestSentence(arabic, english string, targetLemmaIDs, scaffoldLemmaIDs []string, opts ...SentenceOption) *domain.Sentence {
	var tokens []domain.SentenceToken
	pos := 0
	for _, id := range append(append([]string{}, targetLemmaIDs...), scaffoldLemmaIDs...) {
		lid := id
		tokens = append(tokens, domain.SentenceToken{Position: pos, Surface: id, LemmaID: &lid})
		pos++
	}
	s := &domain.Sentence{
		ID:             uuid.New().String(),
		Arabic:         arabic,
		English:        english,
		Tokens:         tokens,
		Active:         true,
		TargetLemmaIDs: targetLemmaIDs,
		Source:         domain.SourceLLMGenerated,
		CreatedAt:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
