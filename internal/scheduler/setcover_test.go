package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetCover_PicksFewestSentencesToCoverAllDue(t *testing.T) {
	weights := DefaultWeights()
	candidates := []ScoringInput{
		{SentenceID: "wide", TargetLemmaIDs: []string{"l1", "l2", "l3"}, Weights: weights},
		{SentenceID: "narrow-a", TargetLemmaIDs: []string{"l1"}, Weights: weights},
		{SentenceID: "narrow-b", TargetLemmaIDs: []string{"l2"}, Weights: weights},
	}

	picks := SetCover(candidates, []string{"l1", "l2", "l3"}, 10)

	assert.Len(t, picks, 1)
	assert.Equal(t, "wide", picks[0].Input.SentenceID)
}

func TestSetCover_StopsWhenDueSetExhausted(t *testing.T) {
	weights := DefaultWeights()
	candidates := []ScoringInput{
		{SentenceID: "a", TargetLemmaIDs: []string{"l1"}, Weights: weights},
		{SentenceID: "b", TargetLemmaIDs: []string{"l2"}, Weights: weights},
		{SentenceID: "c", TargetLemmaIDs: []string{"l1", "l2"}, Weights: weights},
	}

	picks := SetCover(candidates, []string{"l1", "l2"}, 10)

	assert.Len(t, picks, 1)
	assert.Equal(t, "c", picks[0].Input.SentenceID)
}

func TestSetCover_RespectsMaxPicksEvenIfDueRemains(t *testing.T) {
	weights := DefaultWeights()
	candidates := []ScoringInput{
		{SentenceID: "a", TargetLemmaIDs: []string{"l1"}, Weights: weights},
		{SentenceID: "b", TargetLemmaIDs: []string{"l2"}, Weights: weights},
		{SentenceID: "c", TargetLemmaIDs: []string{"l3"}, Weights: weights},
	}

	picks := SetCover(candidates, []string{"l1", "l2", "l3"}, 2)

	assert.Len(t, picks, 2)
}

func TestSetCover_NeverPicksTheSameCandidateTwice(t *testing.T) {
	weights := DefaultWeights()
	candidates := []ScoringInput{
		{SentenceID: "a", TargetLemmaIDs: []string{"l1"}, Weights: weights},
	}

	picks := SetCover(candidates, []string{"l1", "l2"}, 10)

	assert.Len(t, picks, 1)
}

func TestSetCover_SkipsCandidatesThatCoverNothing(t *testing.T) {
	weights := DefaultWeights()
	candidates := []ScoringInput{
		{SentenceID: "unrelated", TargetLemmaIDs: []string{"zzz"}, Weights: weights},
		{SentenceID: "relevant", TargetLemmaIDs: []string{"l1"}, Weights: weights},
	}

	picks := SetCover(candidates, []string{"l1"}, 10)

	assert.Len(t, picks, 1)
	assert.Equal(t, "relevant", picks[0].Input.SentenceID)
}

func TestSetCover_EmptyCandidatesReturnsNoPicks(t *testing.T) {
	picks := SetCover(nil, []string{"l1"}, 10)
	assert.Empty(t, picks)
}
