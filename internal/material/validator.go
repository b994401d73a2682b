package material

import (
	"context"
	"fmt"

	"github.com/houshuang/alif/internal/apperr"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/llm"
)

// Verdict is the sentence quality reviewer's classification (spec §4.5
// step 4: "classifies each new sentence as {ok, reject} with feedback").
type Verdict struct {
	Approved bool
	Reason   string
}

// Validator implements the two levels of sentence validation named in spec
// §4.5: a rule-based check any generator output must pass before it is even
// sent to the semantic reviewer, and the semantic check itself.
type Validator struct {
	oracle llm.Oracle
}

// NewValidator builds a Validator. oracle may be nil; SemanticCheck then
// always fails closed (spec §4.5: "if the reviewer is unavailable, the
// sentence is rejected").
func NewValidator(oracle llm.Oracle) *Validator {
	return &Validator{oracle: oracle}
}

// RuleCheck implements spec §4.5's rule-based level: every content token
// must resolve, and must be either a declared target word or "known" per
// the caller-supplied predicate (already-consolidated vocabulary, a
// function word/clitic, or a variant of either — the caller, which holds
// the knowledge store and resolver, is what can actually answer that).
// A sentence declaring 2+ targets must contain at least 2 of them as
// resolved content tokens.
func (v *Validator) RuleCheck(s *domain.Sentence, known func(lemmaID string) bool) error {
	if !s.AllTokensResolved() {
		return &apperr.ValidationError{
			Code:    apperr.CodeInvalidSurface,
			Message: "sentence has unresolved tokens",
		}
	}

	targets := make(map[string]bool, len(s.TargetLemmaIDs))
	for _, id := range s.TargetLemmaIDs {
		targets[id] = true
	}

	targetHits := 0
	for _, id := range s.ContentLemmaIDs() {
		if targets[id] {
			targetHits++
			continue
		}
		if !known(id) {
			return &apperr.ValidationError{
				Code:    apperr.CodeInvalidSurface,
				Message: fmt.Sprintf("content token %s is neither a target word nor known vocabulary", id),
			}
		}
	}

	if len(s.TargetLemmaIDs) >= 2 && targetHits < 2 {
		return &apperr.ValidationError{
			Code:    apperr.CodeInvalidSurface,
			Message: "multi-target sentence contains fewer than 2 of its declared target words",
		}
	}
	return nil
}

// SemanticCheck implements spec §4.5's cross-model reviewer. Fails closed:
// a nil oracle or a call error both reject rather than admit the sentence.
func (v *Validator) SemanticCheck(ctx context.Context, s *domain.Sentence, targetBares, knownBares []string) Verdict {
	if v.oracle == nil {
		return Verdict{Approved: false, Reason: "reviewer unavailable"}
	}
	result, err := v.oracle.ReviewSentence(ctx, llm.SentenceReviewRequest{
		Arabic:      s.Arabic,
		English:     s.English,
		TargetBares: targetBares,
		KnownBares:  knownBares,
	})
	if err != nil {
		return Verdict{Approved: false, Reason: "reviewer unavailable"}
	}
	return Verdict{Approved: result.Approved, Reason: result.Reason}
}
