// Package scheduler scores candidate sentences for session assembly and
// greedily covers the due-lemma set, the way the teacher's own scheduler
// package scores work items and allocates session time.
package scheduler

import (
	"math"

	"github.com/houshuang/alif/internal/domain"
)

// Weights tunes the scoring formula's exponents/bonuses without touching
// ScoreSentence itself, mirroring the teacher's ScoringWeights.
type Weights struct {
	CoverageExponent  float64 // default 1.5
	BookStoryBonus    float64 // source_bonus multiplier for book/story material
	CourseBonus       float64
	GeneratedBonus    float64
}

// DefaultWeights returns spec §4.6 step 5's stated formula constants.
func DefaultWeights() Weights {
	return Weights{
		CoverageExponent: 1.5,
		BookStoryBonus:   1.2,
		CourseBonus:      1.0,
		GeneratedBonus:   0.9,
	}
}

// ReasonCode names why a scoring factor produced the value it did,
// mirroring the teacher's RecommendationReasonCode.
type ReasonCode string

const (
	ReasonCoverage          ReasonCode = "COVERAGE"
	ReasonDueQuality        ReasonCode = "DUE_QUALITY"
	ReasonGrammarFit        ReasonCode = "GRAMMAR_FIT"
	ReasonDiversity         ReasonCode = "DIVERSITY"
	ReasonScaffoldFreshness ReasonCode = "SCAFFOLD_FRESHNESS"
	ReasonSourceBonus       ReasonCode = "SOURCE_BONUS"
)

// Reason explains one scoring factor's contribution, for session-review
// explainability (mirrors app.RecommendationReason).
type Reason struct {
	Code        ReasonCode
	Message     string
	FactorValue float64
}

// ScoringInput is everything ScoreSentence needs about one candidate
// sentence and the current remaining-due set.
type ScoringInput struct {
	SentenceID        string
	TargetLemmaIDs    []string
	ScaffoldLemmaIDs  []string
	TimesShown        int
	Source            domain.SentenceSource
	ScaffoldTimesSeen map[string]int     // lemma id -> times_seen, for scaffold_freshness
	RemainingDue      map[string]bool    // lemma ids still needing coverage this pick
	DueQuality        map[string]float64 // lemma id -> urgency in [0,1], from the FSRS/acquisition due computation
	Weights           Weights
}

// ScoredSentence is ScoreSentence's pure result: a score, its factor
// breakdown, and the due lemmas this pick would cover (for the greedy set
// cover to subtract).
type ScoredSentence struct {
	Input   ScoringInput
	Score   float64
	Reasons []Reason
	Covered []string
}

// ScoreSentence implements spec §4.6 step 5's formula exactly:
//
//	coverage^1.5 × due_quality × grammar_fit × diversity × scaffold_freshness × source_bonus
//
// A sentence covering none of RemainingDue scores 0 and is never worth
// picking in the set-cover loop.
func ScoreSentence(input ScoringInput) ScoredSentence {
	covered := coveredDueLemmas(input)
	result := ScoredSentence{Input: input, Covered: covered}
	if len(covered) == 0 {
		return result
	}

	score := 1.0
	factors := []func(ScoringInput, []string) (float64, *Reason){
		factorCoverage,
		factorDueQuality,
		factorGrammarFit,
		factorDiversity,
		factorScaffoldFreshness,
		factorSourceBonus,
	}
	for _, f := range factors {
		v, reason := f(input, covered)
		score *= v
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}
	result.Score = score
	return result
}

func coveredDueLemmas(input ScoringInput) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range append(append([]string{}, input.TargetLemmaIDs...), input.ScaffoldLemmaIDs...) {
		if seen[id] || !input.RemainingDue[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func factorCoverage(input ScoringInput, covered []string) (float64, *Reason) {
	v := math.Pow(float64(len(covered)), input.Weights.CoverageExponent)
	return v, &Reason{Code: ReasonCoverage, Message: "covers due lemmas", FactorValue: v}
}

// factorDueQuality averages the per-lemma urgency signal (how overdue an
// FSRS card is, or 1.0 for an acquiring record that is simply due) across
// the lemmas this sentence covers.
func factorDueQuality(input ScoringInput, covered []string) (float64, *Reason) {
	sum := 0.0
	for _, id := range covered {
		if q, ok := input.DueQuality[id]; ok {
			sum += q
		} else {
			sum += 1.0
		}
	}
	v := sum / float64(len(covered))
	return v, &Reason{Code: ReasonDueQuality, Message: "average urgency of covered lemmas", FactorValue: v}
}

// factorGrammarFit is a constant 1.0: the material pipeline's rule-based
// validator (internal/material) already rejects ungrammatical sentences
// before they ever enter the active pool, so by scoring time grammar is
// already known-good. The factor stays a real multiplier slot (not
// dropped) so a future per-learner CEFR-fit signal can occupy it without
// changing ScoreSentence's signature.
func factorGrammarFit(input ScoringInput, covered []string) (float64, *Reason) {
	return 1.0, nil
}

func factorDiversity(input ScoringInput, covered []string) (float64, *Reason) {
	v := 1.0 / (1.0 + float64(input.TimesShown))
	return v, &Reason{Code: ReasonDiversity, Message: "penalizes recently-shown sentences", FactorValue: v}
}

// factorScaffoldFreshness is the geometric mean, floored at 0.3, of
// min(1, 8/times_seen) across the sentence's scaffold lemmas — a scaffold
// word seen many times contributes little cross-training value.
func factorScaffoldFreshness(input ScoringInput, covered []string) (float64, *Reason) {
	if len(input.ScaffoldLemmaIDs) == 0 {
		return 1.0, nil
	}
	logSum := 0.0
	for _, id := range input.ScaffoldLemmaIDs {
		timesSeen := input.ScaffoldTimesSeen[id]
		freshness := 1.0
		if timesSeen > 0 {
			freshness = math.Min(1.0, 8.0/float64(timesSeen))
		}
		logSum += math.Log(freshness)
	}
	v := math.Exp(logSum / float64(len(input.ScaffoldLemmaIDs)))
	if v < 0.3 {
		v = 0.3
	}
	return v, &Reason{Code: ReasonScaffoldFreshness, Message: "geometric mean of scaffold recency", FactorValue: v}
}

func factorSourceBonus(input ScoringInput, covered []string) (float64, *Reason) {
	var v float64
	switch input.Source {
	case domain.SourceBookOCR, domain.SourceStoryOCR:
		v = input.Weights.BookStoryBonus
	case domain.SourceCourseImport:
		v = input.Weights.CourseBonus
	default:
		v = input.Weights.GeneratedBonus
	}
	return v, &Reason{Code: ReasonSourceBonus, Message: "rewards authentic material over generated", FactorValue: v}
}
