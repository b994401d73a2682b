// Package autointro implements the admission controller that promotes
// encountered words into acquisition when the session builder needs more
// material (spec §4.7).
package autointro

import (
	"context"
	"sort"
	"time"

	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/repository"
)

// tierRank orders candidate provenance, lower is more preferred, mirroring
// the spec's "active book > imported story > course > frequency list"
// tier order. Manually-entered words are not named in that ordering and
// sit last.
var tierRank = map[domain.EntrySource]int{
	domain.EntryBook:          0,
	domain.EntryStory:         1,
	domain.EntryCourse:        2,
	domain.EntryFrequencyList: 3,
	domain.EntryManual:        4,
}

// Controller is the auto-introduction admission controller.
type Controller struct {
	knowledge repository.KnowledgeRepo
	reviews   repository.ReviewLogRepo
	roots     repository.RootRepo
	params    config.AutoIntroParams
}

// New builds a Controller over the given repositories and parameters.
func New(knowledge repository.KnowledgeRepo, reviews repository.ReviewLogRepo, roots repository.RootRepo, params config.AutoIntroParams) *Controller {
	return &Controller{knowledge: knowledge, reviews: reviews, roots: roots, params: params}
}

// twoDayLookback is the accuracy window's time span (spec §4.7: "e.g. 2
// days"). It always applies; a set AccuracyWindowReviews only narrows the
// window further, to that many of the most recent reviews inside it.
const twoDayLookback = 48 * time.Hour

// RecentAccuracy computes the recent-accuracy signal α driving the
// accuracy throttle: the fraction of reviews whose rating was not Again,
// taken over the last two days and, if AccuracyWindowReviews is set, over
// at most that many of the most recent reviews within them. No reviews yet
// returns 1.0 (don't
// pause the very first session).
func (c *Controller) RecentAccuracy(ctx context.Context, now time.Time) (float64, error) {
	logs, err := c.reviews.ListRecent(ctx, now.Add(-twoDayLookback))
	if err != nil {
		return 0, err
	}
	if c.params.AccuracyWindowReviews > 0 && len(logs) > c.params.AccuracyWindowReviews {
		logs = logs[:c.params.AccuracyWindowReviews]
	}
	if len(logs) == 0 {
		return 1.0, nil
	}
	correct := 0
	for _, l := range logs {
		if l.Rating != domain.RatingAgain {
			correct++
		}
	}
	return float64(correct) / float64(len(logs)), nil
}

// SlotsAvailable computes how many words may be auto-introduced right
// now, the minimum of: session demand, the accuracy-throttle band, the
// per-session cap, and the remaining box-1 soft-cap headroom.
func (c *Controller) SlotsAvailable(ctx context.Context, accuracy float64, dueReviewCount, targetSessionSize int) (int, error) {
	needed := targetSessionSize - dueReviewCount
	if needed <= 0 {
		return 0, nil
	}

	slots := c.params.SlotsFor(accuracy)
	if slots > needed {
		slots = needed
	}
	if slots > c.params.PerSessionCap {
		slots = c.params.PerSessionCap
	}

	box1, err := c.knowledge.CountInBox(ctx, 1)
	if err != nil {
		return 0, err
	}
	headroom := c.params.Box1SoftCap - box1
	if headroom < 0 {
		headroom = 0
	}
	if slots > headroom {
		slots = headroom
	}
	if slots < 0 {
		slots = 0
	}
	return slots, nil
}

// SelectCandidates returns up to n lemma ids to auto-introduce, chosen
// from encountered words by provenance tier, then frequency rank, skipping
// categories that are never auto-introduced and words whose root has a
// freshly-lapsed sibling.
func (c *Controller) SelectCandidates(ctx context.Context, now time.Time, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	candidates, err := c.knowledge.ListEncounteredCandidates(ctx)
	if err != nil {
		return nil, err
	}

	eligible := candidates[:0]
	for _, cand := range candidates {
		if cand.Category == domain.CategoryProperName || cand.Category == domain.CategoryOnomatopoeia || cand.Category == domain.CategoryJunk {
			continue
		}
		eligible = append(eligible, cand)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		ti, tj := tierRank[eligible[i].Source], tierRank[eligible[j].Source]
		if ti != tj {
			return ti < tj
		}
		ri, rj := eligible[i].FrequencyRank, eligible[j].FrequencyRank
		if ri == nil && rj == nil {
			return false
		}
		if ri == nil {
			return false
		}
		if rj == nil {
			return true
		}
		return *ri < *rj
	})

	var selected []string
	for _, cand := range eligible {
		if len(selected) >= n {
			break
		}
		if cand.RootID != nil {
			siblings, err := c.roots.ListSiblingLemmaIDs(ctx, *cand.RootID)
			if err != nil {
				return nil, err
			}
			if len(siblings) > 0 {
				lapsed, err := c.knowledge.CountRecentlyLapsedSiblings(ctx, siblings, now, c.params.SiblingInterferenceWindow)
				if err != nil {
					return nil, err
				}
				if lapsed > 0 {
					continue
				}
			}
		}
		selected = append(selected, cand.LemmaID)
	}
	return selected, nil
}

// Introduce flips each selected lemma's record to acquiring, box 1, due
// now, so it appears in the current session.
func (c *Controller) Introduce(ctx context.Context, now time.Time, lemmaIDs []string) error {
	for _, id := range lemmaIDs {
		rec, err := c.knowledge.GetByLemmaID(ctx, id)
		if err != nil {
			return err
		}
		box := 1
		rec.State = domain.StateAcquiring
		rec.AcquisitionBox = &box
		rec.AcquisitionNextDue = &now
		rec.AcquisitionStartedAt = &now
		if err := c.knowledge.Update(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
