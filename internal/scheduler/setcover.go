package scheduler

// SetCover greedily picks candidates to cover dueLemmaIDs, the way the
// teacher's AllocateSlices greedily fills available session time: pick the
// highest-scoring candidate, subtract what it covers from the remaining-due
// set, re-score everything left, repeat until the due set is empty, the
// session reaches maxPicks, or no remaining candidate covers anything.
func SetCover(candidates []ScoringInput, dueLemmaIDs []string, maxPicks int) []ScoredSentence {
	remaining := make(map[string]bool, len(dueLemmaIDs))
	for _, id := range dueLemmaIDs {
		remaining[id] = true
	}

	pool := make([]ScoringInput, len(candidates))
	copy(pool, candidates)

	var picks []ScoredSentence
	for len(picks) < maxPicks && len(remaining) > 0 && len(pool) > 0 {
		bestIdx := -1
		var best ScoredSentence
		for i, c := range pool {
			c.RemainingDue = remaining
			scored := ScoreSentence(c)
			if scored.Score <= 0 {
				continue
			}
			if bestIdx == -1 || scored.Score > best.Score {
				bestIdx = i
				best = scored
			}
		}
		if bestIdx == -1 {
			break
		}

		picks = append(picks, best)
		for _, id := range best.Covered {
			delete(remaining, id)
		}
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
	}

	return picks
}
