package fsrs

import (
	"context"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/apperr"
	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/repository"
)

// Scheduler runs FSRS-6 reviews and undo over graduated KnowledgeRecords,
// per spec §4.4.
type Scheduler struct {
	knowledge repository.KnowledgeRepo
	logs      repository.ReviewLogRepo
	fsrs      config.FSRSParams
	leech     config.LeechParams
}

// New builds a Scheduler over the given repositories and parameters.
func New(knowledge repository.KnowledgeRepo, logs repository.ReviewLogRepo, fsrsParams config.FSRSParams, leechParams config.LeechParams) *Scheduler {
	return &Scheduler{knowledge: knowledge, logs: logs, fsrs: fsrsParams, leech: leechParams}
}

// SubmitReviewRequest bundles a single review event, mirroring the
// teacher's ScoringInput convention of one struct per multi-field call.
type SubmitReviewRequest struct {
	LemmaID        string
	Rating         domain.Rating
	Now            time.Time
	SessionID      string
	ClientReviewID string
	CreditType     domain.CreditType
}

// SubmitReview advances lemmaID's FSRS card by one review: snapshot, update
// stability/difficulty, update state and counters, run leech detection,
// append the (idempotent) review log. A duplicate ClientReviewID is a
// silent no-op, matching ReviewLogRepo.Append's ON CONFLICT semantics.
func (s *Scheduler) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*domain.KnowledgeRecord, error) {
	if exists, err := s.logs.Exists(ctx, req.ClientReviewID); err != nil {
		return nil, fmt.Errorf("checking review idempotency: %w", err)
	} else if exists {
		return s.knowledge.GetByLemmaID(ctx, req.LemmaID)
	}

	rec, err := s.knowledge.GetByLemmaID(ctx, req.LemmaID)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge record: %w", err)
	}
	if !rec.IsGraduated() {
		return nil, &apperr.ConflictError{Code: apperr.CodeNoSnapshot, Message: "lemma has not graduated to FSRS"}
	}

	snapshot := *rec
	card, err := DecodeCard(rec.FSRSCard)
	if err != nil {
		return nil, fmt.Errorf("decoding fsrs card: %w", err)
	}

	elapsedDays := req.Now.Sub(card.LastReviewAt).Hours() / 24
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	r := retrievability(s.fsrs.Weights, elapsedDays, card.Stability)

	var newStability float64
	switch {
	case elapsedDays < 1:
		newStability = sameDayStability(s.fsrs.Weights, card.Stability, req.Rating)
	case req.Rating == domain.RatingAgain:
		newStability = nextStabilityOnLapse(s.fsrs.Weights, card.Difficulty, card.Stability, r)
	default:
		newStability = nextStabilityOnRecall(s.fsrs.Weights, card.Difficulty, card.Stability, r, req.Rating)
	}

	card.Difficulty = nextDifficulty(s.fsrs.Weights, card.Difficulty, req.Rating)
	card.Stability = newStability
	card.Reps++
	if req.Rating == domain.RatingAgain {
		card.Lapses++
	}
	card.LastReviewAt = req.Now

	blob, err := card.Encode()
	if err != nil {
		return nil, err
	}
	rec.FSRSCard = blob
	rec.LastReviewAt = &req.Now
	rec.TimesSeen++
	if req.Rating != domain.RatingAgain {
		rec.TimesCorrect++
	}

	switch {
	case req.Rating == domain.RatingAgain:
		rec.State = domain.StateLapsed
	case card.Stability >= s.fsrs.KnownStabilityThreshold:
		rec.State = domain.StateKnown
	default:
		rec.State = domain.StateLearning
	}

	s.applyLeechCheck(rec, req.Now)

	if err := s.knowledge.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("persisting fsrs review: %w", err)
	}

	log := &domain.ReviewLog{
		ID:                req.ClientReviewID,
		LemmaID:           req.LemmaID,
		Rating:            req.Rating,
		IsAcquisitionStep: false,
		PreReviewSnapshot: snapshot,
		SessionID:         req.SessionID,
		ClientReviewID:    req.ClientReviewID,
		ReviewedAt:        req.Now,
		CreditType:        req.CreditType,
	}
	if err := s.logs.Append(ctx, log); err != nil {
		return nil, fmt.Errorf("appending review log: %w", err)
	}

	return rec, nil
}

// applyLeechCheck suspends rec for a graduated cooldown when it meets the
// leech criteria (spec §4.4 leech detection), mutating rec in place.
func (s *Scheduler) applyLeechCheck(rec *domain.KnowledgeRecord, now time.Time) {
	if rec.TimesSeen < s.leech.ThresholdReviews || rec.Accuracy() >= s.leech.ThresholdAccuracy {
		return
	}
	rec.LeechCount++
	rec.State = domain.StateSuspended
	suspendedAt := now
	rec.LeechSuspendedAt = &suspendedAt
}

// UndoLast reverts the most recent review matching sessionPrefix for
// lemmaID: restores the pre-review snapshot and deletes the log entry.
// Idempotent when no matching log exists (spec §4.4 undo_last).
func (s *Scheduler) UndoLast(ctx context.Context, lemmaID, sessionPrefix string) error {
	log, err := s.logs.GetLatestForLemma(ctx, lemmaID, sessionPrefix)
	if err == repository.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding latest review log: %w", err)
	}

	snapshot := log.PreReviewSnapshot
	if err := s.knowledge.Update(ctx, &snapshot); err != nil {
		return fmt.Errorf("restoring knowledge record snapshot: %w", err)
	}
	if err := s.logs.Delete(ctx, log.ID); err != nil {
		return fmt.Errorf("deleting review log: %w", err)
	}
	return nil
}

// Retrievability evaluates R(t, S) for card at now, exposed standalone
// because the session scorer's due_quality factor and the
// comprehensibility gate's stability-based TTS check both need it outside
// a full review submission.
func (s *Scheduler) Retrievability(card *Card, now time.Time) float64 {
	elapsedDays := now.Sub(card.LastReviewAt).Hours() / 24
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return retrievability(s.fsrs.Weights, elapsedDays, card.Stability)
}

// NextDueAt returns when card next drops to the configured target
// retention, clamped to the configured maximum interval.
func (s *Scheduler) NextDueAt(card *Card) time.Time {
	days := nextIntervalDays(s.fsrs.Weights, card.Stability, s.fsrs.RequestRetention)
	interval := time.Duration(days * float64(24*time.Hour))
	if interval > s.fsrs.MaximumInterval {
		interval = s.fsrs.MaximumInterval
	}
	return card.LastReviewAt.Add(interval)
}
