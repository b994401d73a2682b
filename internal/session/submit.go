package session

import (
	"context"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/acquisition"
	"github.com/houshuang/alif/internal/apperr"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/fsrs"
)

// SubmitReviewRequest bundles one completed sentence's review credit,
// mirroring fsrs.SubmitReviewRequest's single-struct convention (spec
// §4.6 "review credit on submission").
type SubmitReviewRequest struct {
	SessionID           string
	Sentence             *domain.Sentence
	ComprehensionRating  domain.ComprehensionRating
	MissedLemmaIDs       []string
	Now                  time.Time
}

// SubmitReviewResult reports the post-review record for every lemma that
// received credit.
type SubmitReviewResult struct {
	Records map[string]*domain.KnowledgeRecord
}

// SubmitReview implements spec §4.6's credit-assignment step: every
// content token in req.Sentence gets review credit, deduplicated per
// lemma, routed to whichever scheduler currently owns that lemma
// (acquisition or FSRS). Target words are credited CreditTarget, other
// content words CreditScaffold, variant forms CreditVariantRedirect. A
// word named in MissedLemmaIDs always gets RatingAgain regardless of the
// whole-sentence rating.
func (b *Builder) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*SubmitReviewResult, error) {
	missed := make(map[string]bool, len(req.MissedLemmaIDs))
	for _, id := range req.MissedLemmaIDs {
		missed[id] = true
	}
	wholeSentenceRating := b.ratingFor(req.ComprehensionRating)

	lemmaIDs := req.Sentence.ContentLemmaIDs()
	resolved, err := b.lemmasByID(ctx, lemmaIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving sentence lemmas: %w", err)
	}

	result := &SubmitReviewResult{Records: make(map[string]*domain.KnowledgeRecord, len(lemmaIDs))}
	for _, id := range lemmaIDs {
		lemmaID := id
		creditType := domain.CreditScaffold
		if req.Sentence.IsTarget(lemmaID) {
			creditType = domain.CreditTarget
		}
		variantSurface := ""
		if l, ok := resolved[lemmaID]; ok && l.IsVariant() {
			variantSurface = l.Bare
			lemmaID = *l.CanonicalLemmaID
			creditType = domain.CreditVariantRedirect
		}
		if _, already := result.Records[lemmaID]; already {
			continue
		}

		rating := wholeSentenceRating
		if missed[id] || missed[lemmaID] {
			rating = b.ratings.Missed
		}

		clientReviewID := fmt.Sprintf("%s:%s", req.SessionID, lemmaID)
		rec, err := b.submitOne(ctx, lemmaID, rating, req.Now, req.SessionID, clientReviewID, creditType)
		if err != nil {
			return nil, fmt.Errorf("submitting review for %s: %w", lemmaID, err)
		}
		if variantSurface != "" {
			if err := b.recordVariantStat(ctx, rec, variantSurface); err != nil {
				return nil, fmt.Errorf("recording variant stat for %s: %w", lemmaID, err)
			}
		}
		result.Records[lemmaID] = rec
	}
	return result, nil
}

// recordVariantStat implements spec §4.4/§4.1's "the variant's surface
// counters are written into the canonical's variant_stats": every review
// credited to rec via variant redirection increments the surface form's
// tally on the canonical record. submitOne/submitAcquisition already
// persisted rec for the scheduling update; this is a second, independent
// write to the same row for the observational-only counter.
func (b *Builder) recordVariantStat(ctx context.Context, rec *domain.KnowledgeRecord, surface string) error {
	if rec.VariantStats == nil {
		rec.VariantStats = make(map[string]int, 1)
	}
	rec.VariantStats[surface]++
	return b.knowledge.Update(ctx, rec)
}

func (b *Builder) ratingFor(c domain.ComprehensionRating) domain.Rating {
	switch c {
	case domain.ComprehensionUnderstood:
		return b.ratings.Understood
	case domain.ComprehensionPartial:
		return b.ratings.Partial
	default:
		return b.ratings.NoIdea
	}
}

// submitOne dispatches a single lemma's review to the acquisition or FSRS
// path depending on the record's current state, per spec §4.6 ("the
// appropriate scheduler"). Acquisition has no wrapping Scheduler type
// (internal/acquisition.AdvanceBox is deliberately pure), so the
// persistence, leech check and log append that fsrs.Scheduler.SubmitReview
// does internally are replicated here for the acquiring path.
func (b *Builder) submitOne(ctx context.Context, lemmaID string, rating domain.Rating, now time.Time, sessionID, clientReviewID string, creditType domain.CreditType) (*domain.KnowledgeRecord, error) {
	if exists, err := b.logs.Exists(ctx, clientReviewID); err != nil {
		return nil, fmt.Errorf("checking review idempotency: %w", err)
	} else if exists {
		return b.knowledge.GetByLemmaID(ctx, lemmaID)
	}

	rec, err := b.knowledge.GetByLemmaID(ctx, lemmaID)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge record: %w", err)
	}

	if rec.IsGraduated() {
		return b.fsrsScheduler.SubmitReview(ctx, fsrs.SubmitReviewRequest{
			LemmaID:        lemmaID,
			Rating:         rating,
			Now:            now,
			SessionID:      sessionID,
			ClientReviewID: clientReviewID,
			CreditType:     creditType,
		})
	}

	if !rec.IsAcquiring() {
		return nil, &apperr.ConflictError{Code: apperr.CodeNoSnapshot, Message: "lemma is not schedulable for review"}
	}

	return b.submitAcquisition(ctx, rec, rating, now, sessionID, clientReviewID, creditType)
}

// submitAcquisition advances rec through the Leitner state machine
// (internal/acquisition.AdvanceBox), seeding an FSRS card on graduation,
// then persists, runs the leech check and appends the review log — the
// same sequence fsrs.Scheduler.SubmitReview performs for the FSRS path.
func (b *Builder) submitAcquisition(ctx context.Context, rec *domain.KnowledgeRecord, rating domain.Rating, now time.Time, sessionID, clientReviewID string, creditType domain.CreditType) (*domain.KnowledgeRecord, error) {
	snapshot := *rec
	transition := acquisition.AdvanceBox(rec, rating, now, b.acqParams)

	rec.TimesSeen++
	if rating != domain.RatingAgain {
		rec.TimesCorrect++
	}
	rec.LastReviewAt = &now

	switch {
	case transition.Graduated:
		card := acquisition.Graduate(b.fsrsParams.Weights, now)
		blob, err := card.Encode()
		if err != nil {
			return nil, err
		}
		rec.FSRSCard = blob
		rec.AcquisitionBox = nil
		rec.AcquisitionNextDue = nil
		rec.GraduatedAt = &now
		rec.State = domain.StateLearning
	case transition.ExposureOnly:
		// box and due date unchanged, only counters advance
	default:
		box := transition.NewBox
		rec.AcquisitionBox = &box
		rec.AcquisitionNextDue = &transition.NewNextDue
	}

	b.applyAcquisitionLeechCheck(rec, now)

	if err := b.knowledge.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("persisting acquisition review: %w", err)
	}

	log := &domain.ReviewLog{
		ID:                clientReviewID,
		LemmaID:           rec.LemmaID,
		Rating:            rating,
		IsAcquisitionStep: true,
		PreReviewSnapshot: snapshot,
		SessionID:         sessionID,
		ClientReviewID:    clientReviewID,
		ReviewedAt:        now,
		CreditType:        creditType,
	}
	if err := b.logs.Append(ctx, log); err != nil {
		return nil, fmt.Errorf("appending review log: %w", err)
	}
	return rec, nil
}

// applyAcquisitionLeechCheck mirrors fsrs.Scheduler.applyLeechCheck's
// suspend criteria for words still in the acquisition phase.
func (b *Builder) applyAcquisitionLeechCheck(rec *domain.KnowledgeRecord, now time.Time) {
	if rec.TimesSeen < b.leechParams.ThresholdReviews || rec.Accuracy() >= b.leechParams.ThresholdAccuracy {
		return
	}
	rec.LeechCount++
	rec.State = domain.StateSuspended
	suspendedAt := now
	rec.LeechSuspendedAt = &suspendedAt
}

// ShouldInvalidate reports whether a previously built session is stale and
// should be rebuilt, per spec §4.6: elapsed time since the last reviewed
// card past BackgroundRefreshThreshold invalidates any cached session.
func (b *Builder) ShouldInvalidate(lastReviewedAt, now time.Time) bool {
	if b.params.BackgroundRefreshThreshold <= 0 {
		return false
	}
	return now.Sub(lastReviewedAt) > b.params.BackgroundRefreshThreshold
}
