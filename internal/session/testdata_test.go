package session

import (
	"time"

	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/fsrs"
)

func testParams() config.SchedulerParams {
	p := config.Default()
	p.Session.DefaultSize = 10
	p.Session.MinSize = 1
	p.Session.MaxSize = 15
	p.Session.FocusCohortCap = 200
	p.Session.ComprehensibilityFraction = 0.6
	p.Session.MinAcquisitionExposures = 2
	p.Session.MaxAcquisitionExposuresExpansionFactor = 2.0
	return p
}

func newAcquiringRecord(lemmaID string, box int, due time.Time) *domain.KnowledgeRecord {
	started := due.Add(-time.Hour)
	return &domain.KnowledgeRecord{
		ID:                   "kr-" + lemmaID,
		LemmaID:              lemmaID,
		State:                domain.StateAcquiring,
		AcquisitionBox:       &box,
		AcquisitionNextDue:   &due,
		AcquisitionStartedAt: &started,
	}
}

func newGraduatedRecord(lemmaID string, stability float64, lastReview time.Time) *domain.KnowledgeRecord {
	card := &fsrs.Card{Stability: stability, Difficulty: 5, Reps: 3, LastReviewAt: lastReview}
	blob, _ := card.Encode()
	graduated := lastReview.Add(-24 * time.Hour)
	return &domain.KnowledgeRecord{
		ID:           "kr-" + lemmaID,
		LemmaID:      lemmaID,
		State:        domain.StateLearning,
		FSRSCard:     blob,
		GraduatedAt:  &graduated,
		LastReviewAt: &lastReview,
		TimesSeen:    3,
		TimesCorrect: 3,
	}
}

func newLemma(id string) *domain.Lemma {
	return &domain.Lemma{ID: id, Bare: id, Gloss: id, Category: domain.CategoryStandard}
}

func newSentence(id string, targets []string, scaffold []string) *domain.Sentence {
	var tokens []domain.SentenceToken
	pos := 0
	for _, lemmaID := range append(append([]string{}, targets...), scaffold...) {
		lid := lemmaID
		tokens = append(tokens, domain.SentenceToken{Position: pos, Surface: lemmaID, LemmaID: &lid})
		pos++
	}
	return &domain.Sentence{
		ID:             id,
		Arabic:         id,
		English:        id,
		Tokens:         tokens,
		Active:         true,
		TargetLemmaIDs: targets,
		Source:         domain.SourceLLMGenerated,
		CreatedAt:      time.Now(),
	}
}
