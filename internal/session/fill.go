package session

import (
	"context"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/material"
	"github.com/houshuang/alif/internal/scheduler"
)

// picksToItems converts the greedy set-cover's picks into session items,
// tagging each with whether it carries an acquiring-state obligation, and
// accumulates the full set of due lemma ids any pick covered.
func picksToItems(picks []scheduler.ScoredSentence, candidates []*domain.Sentence, acquiringIDs []string) ([]Item, map[string]bool) {
	byID := make(map[string]*domain.Sentence, len(candidates))
	for _, s := range candidates {
		byID[s.ID] = s
	}
	acquiring := make(map[string]bool, len(acquiringIDs))
	for _, id := range acquiringIDs {
		acquiring[id] = true
	}

	covered := make(map[string]bool)
	items := make([]Item, 0, len(picks))
	for _, pick := range picks {
		s, ok := byID[pick.Input.SentenceID]
		if !ok {
			continue
		}
		items = append(items, newItem(s, acquiring))
		for _, id := range pick.Covered {
			covered[id] = true
		}
	}
	return items, covered
}

func newItem(s *domain.Sentence, acquiring map[string]bool) Item {
	item := Item{Sentence: s, TargetLemmaIDs: s.TargetLemmaIDs}
	for _, id := range s.TargetLemmaIDs {
		if acquiring[id] {
			item.Acquiring = true
			break
		}
	}
	return item
}

// ensureAcquisitionRepetition implements step 7: every acquiring-state
// lemma in the session must appear in at least MinAcquisitionExposures
// sentences. Additional sentences are pulled from the gated candidate
// pool (never from sentences already picked) until the word reaches
// MinAcquisitionExposures or the pool has no more sentences containing it.
// The expansion-factor cap (MinAcquisitionExposures ×
// MaxAcquisitionExposuresExpansionFactor) is never below that minimum, so
// it does not end the top-up any earlier.
func (b *Builder) ensureAcquisitionRepetition(items []Item, covered map[string]bool, acquiringIDs []string, gated []*domain.Sentence) []Item {
	if b.params.MinAcquisitionExposures <= 0 {
		return items
	}
	picked := make(map[string]bool, len(items))
	for _, it := range items {
		picked[it.Sentence.ID] = true
	}
	acquiring := make(map[string]bool, len(acquiringIDs))
	for _, id := range acquiringIDs {
		acquiring[id] = true
	}

	repetitionCap := b.params.MinAcquisitionExposures
	if b.params.MaxAcquisitionExposuresExpansionFactor > 1 {
		repetitionCap = int(float64(b.params.MinAcquisitionExposures) * b.params.MaxAcquisitionExposuresExpansionFactor)
	}

	for _, lemmaID := range acquiringIDs {
		exposures := 0
		for _, it := range items {
			if containsLemma(it.Sentence, lemmaID) {
				exposures++
			}
		}
		if exposures >= b.params.MinAcquisitionExposures {
			continue
		}
		for _, s := range gated {
			if exposures >= b.params.MinAcquisitionExposures || exposures >= repetitionCap {
				break
			}
			if picked[s.ID] || !containsLemma(s, lemmaID) {
				continue
			}
			items = append(items, newItem(s, acquiring))
			picked[s.ID] = true
			covered[lemmaID] = true
			exposures++
		}
	}
	return items
}

func containsLemma(s *domain.Sentence, lemmaID string) bool {
	for _, id := range s.ContentLemmaIDs() {
		if id == lemmaID {
			return true
		}
	}
	return false
}

// fill implements step 8: if the session is undersized, run the auto-
// introducer with its normal slot caps (there is no relaxed fill mode),
// generate a just-in-time sentence for each word it introduces, and, if
// due obligations remain unresolved, request just-in-time generation for
// them. A session that still falls short
// because no obligations remain is returned shorter rather than padded
// (spec §4.6 step 8: "never pad with already-reviewed cards").
func (b *Builder) fill(ctx context.Context, now time.Time, items []Item, dueLemmaIDs []string, covered map[string]bool, targetSize int, jitBudget *int) ([]Item, error) {
	if len(items) >= targetSize {
		return items, nil
	}

	if b.autoIntro != nil {
		accuracy, err := b.autoIntro.RecentAccuracy(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("computing recent accuracy: %w", err)
		}
		slots, err := b.autoIntro.SlotsAvailable(ctx, accuracy, len(dueLemmaIDs), targetSize)
		if err != nil {
			return nil, fmt.Errorf("computing auto-intro slots: %w", err)
		}
		if slots > 0 {
			newWords, err := b.autoIntro.SelectCandidates(ctx, now, slots)
			if err != nil {
				return nil, fmt.Errorf("selecting auto-intro candidates: %w", err)
			}
			if len(newWords) > 0 {
				if err := b.autoIntro.Introduce(ctx, now, newWords); err != nil {
					return nil, fmt.Errorf("introducing auto-intro candidates: %w", err)
				}
				for _, lemmaID := range newWords {
					if len(items) >= targetSize {
						break
					}
					s, err := b.pipeline.GenerateJIT(ctx, lemmaID, jitBudget)
					if err != nil {
						if err == material.ErrJITBudgetExhausted {
							break
						}
						continue
					}
					items = append(items, Item{Sentence: s, TargetLemmaIDs: s.TargetLemmaIDs, Acquiring: true})
					covered[lemmaID] = true
				}
			}
		}
	}

	if len(items) >= targetSize {
		return items, nil
	}
	for _, lemmaID := range dueLemmaIDs {
		if len(items) >= targetSize {
			break
		}
		if covered[lemmaID] {
			continue
		}
		s, err := b.pipeline.GenerateJIT(ctx, lemmaID, jitBudget)
		if err != nil {
			if err == material.ErrJITBudgetExhausted {
				break
			}
			continue
		}
		items = append(items, Item{Sentence: s, TargetLemmaIDs: s.TargetLemmaIDs})
		covered[lemmaID] = true
	}
	return items, nil
}
