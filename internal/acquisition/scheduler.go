// Package acquisition implements the Leitner-style 3-box early-consolidation
// phase that precedes FSRS scheduling (spec §4.3).
package acquisition

import (
	"time"

	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/fsrs"
)

// Transition is the pure result of one acquisition-box advance: the caller
// (the session-submission service layer) decides how to persist it inside
// its own transaction, mirroring the teacher's ScoreWorkItem returning a
// pure ScoredCandidate rather than mutating state itself.
type Transition struct {
	NewBox       int
	NewNextDue   time.Time
	Graduated    bool
	ExposureOnly bool // counters updated, box/due unchanged
}

func isGoodOrEasy(r domain.Rating) bool {
	return r == domain.RatingGood || r == domain.RatingEasy
}

// distinctCalendarDays counts the calendar days from since's date through
// now's date, both ends included, so two times on the same date count 1
// (spec's "≥ 2 distinct calendar days since first review" graduation
// guard). Each date is read in its own time's location.
func distinctCalendarDays(since, now time.Time) int {
	sy, sm, sd := since.Date()
	ny, nm, nd := now.Date()
	sinceDay := time.Date(sy, sm, sd, 0, 0, 0, 0, since.Location())
	nowDay := time.Date(ny, nm, nd, 0, 0, 0, 0, since.Location())
	return int(nowDay.Sub(sinceDay).Hours()/24) + 1
}

// AdvanceBox implements the §4.3 state-transition table exactly: rec must
// be in the acquiring state with a non-nil AcquisitionBox.
func AdvanceBox(rec *domain.KnowledgeRecord, rating domain.Rating, now time.Time, params config.AcquisitionParams) Transition {
	box := 1
	if rec.AcquisitionBox != nil {
		box = *rec.AcquisitionBox
	}
	due := rec.AcquisitionNextDue == nil || !now.Before(*rec.AcquisitionNextDue)

	switch box {
	case 1:
		if isGoodOrEasy(rating) {
			return Transition{NewBox: 2, NewNextDue: now.Add(params.Box1Interval)}
		}
		return Transition{NewBox: 1, NewNextDue: now.Add(params.Box1Interval)}

	case 2:
		if rating == domain.RatingAgain {
			return Transition{NewBox: 1, NewNextDue: now.Add(params.Box1Interval)}
		}
		if isGoodOrEasy(rating) && due {
			return Transition{NewBox: 3, NewNextDue: now.Add(params.Box2Interval)}
		}
		return Transition{NewBox: 2, ExposureOnly: true}

	case 3:
		if rating == domain.RatingAgain {
			return Transition{NewBox: 1, NewNextDue: now.Add(params.Box1Interval)}
		}
		calendarDaysOK := rec.AcquisitionStartedAt != nil &&
			distinctCalendarDays(*rec.AcquisitionStartedAt, now) >= params.MinCalendarDaysForGraduation
		if isGoodOrEasy(rating) && due && calendarDaysOK {
			return Transition{Graduated: true}
		}
		return Transition{NewBox: 3, ExposureOnly: true}
	}

	return Transition{NewBox: box, ExposureOnly: true}
}

// Graduate seeds the FSRS card a word receives when it leaves acquisition,
// per §4.3's "graduation seeds an FSRS card with a Good-rating initial
// review". It takes no KnowledgeRecord: the caller encodes the card and
// attaches it to the record, whose acquisition counters stay as they are.
func Graduate(weights [21]float64, now time.Time) *fsrs.Card {
	return fsrs.Seed(weights, now)
}
