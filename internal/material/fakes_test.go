package material

import (
	"context"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/llm"
	"github.com/houshuang/alif/internal/repository"
)

type fakeSentenceRepo struct {
	byID map[string]*domain.Sentence
}

func newFakeSentenceRepo() *fakeSentenceRepo {
	return &fakeSentenceRepo{byID: make(map[string]*domain.Sentence)}
}

func (f *fakeSentenceRepo) Create(ctx context.Context, s *domain.Sentence) error {
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}
func (f *fakeSentenceRepo) GetByID(ctx context.Context, id string) (*domain.Sentence, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}
func (f *fakeSentenceRepo) Update(ctx context.Context, s *domain.Sentence) error {
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}
func (f *fakeSentenceRepo) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}
func (f *fakeSentenceRepo) ListActive(ctx context.Context) ([]*domain.Sentence, error) {
	var out []*domain.Sentence
	for _, s := range f.byID {
		if s.Active {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (f *fakeSentenceRepo) ListActiveCovering(ctx context.Context, lemmaIDs []string) ([]*domain.Sentence, error) {
	return f.ListActive(ctx)
}
func (f *fakeSentenceRepo) ListDormant(ctx context.Context) ([]*domain.Sentence, error) {
	var out []*domain.Sentence
	for _, s := range f.byID {
		if s.Active {
			continue
		}
		for _, t := range s.Tokens {
			if !t.Resolved() {
				cp := *s
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}
func (f *fakeSentenceRepo) CountActive(ctx context.Context) (int, error) {
	n := 0
	for _, s := range f.byID {
		if s.Active {
			n++
		}
	}
	return n, nil
}
func (f *fakeSentenceRepo) CountActiveByTarget(ctx context.Context, lemmaID string) (int, error) {
	n := 0
	for _, s := range f.byID {
		if !s.Active {
			continue
		}
		if s.IsTarget(lemmaID) {
			n++
		}
	}
	return n, nil
}
func (f *fakeSentenceRepo) ListRetirementCandidates(ctx context.Context, staleLemmaIDs []string) ([]*domain.Sentence, error) {
	return f.ListActive(ctx)
}

type fakeKnowledgeRepo struct {
	byLemma map[string]*domain.KnowledgeRecord
}

func newFakeKnowledgeRepo() *fakeKnowledgeRepo {
	return &fakeKnowledgeRepo{byLemma: make(map[string]*domain.KnowledgeRecord)}
}

func (f *fakeKnowledgeRepo) Create(ctx context.Context, r *domain.KnowledgeRecord) error {
	f.byLemma[r.LemmaID] = r
	return nil
}
func (f *fakeKnowledgeRepo) GetByID(ctx context.Context, id string) (*domain.KnowledgeRecord, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeKnowledgeRepo) GetByLemmaID(ctx context.Context, lemmaID string) (*domain.KnowledgeRecord, error) {
	r, ok := f.byLemma[lemmaID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}
func (f *fakeKnowledgeRepo) Update(ctx context.Context, r *domain.KnowledgeRecord) error {
	f.byLemma[r.LemmaID] = r
	return nil
}
func (f *fakeKnowledgeRepo) ListByLemmaIDs(ctx context.Context, lemmaIDs []string) ([]*domain.KnowledgeRecord, error) {
	var out []*domain.KnowledgeRecord
	for _, id := range lemmaIDs {
		if r, ok := f.byLemma[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeKnowledgeRepo) ListDueAcquiring(ctx context.Context, now time.Time) ([]*domain.KnowledgeRecord, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) ListDueFSRS(ctx context.Context, now time.Time, window time.Duration) ([]*domain.KnowledgeRecord, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) ListFocusCohortFill(ctx context.Context, cap int, excludeLemmaIDs []string) ([]*domain.KnowledgeRecord, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) ClassifyComprehensibility(ctx context.Context, lemmaIDs []string) (map[string]repository.ComprehensibilityClass, error) {
	out := make(map[string]repository.ComprehensibilityClass, len(lemmaIDs))
	for _, id := range lemmaIDs {
		rec, ok := f.byLemma[id]
		if !ok {
			out[id] = repository.ClassUnknown
			continue
		}
		switch rec.State {
		case domain.StateKnown, domain.StateLearning:
			out[id] = repository.ClassConsolidated
		case domain.StateAcquiring, domain.StateLapsed:
			out[id] = repository.ClassFreshAcquiring
		default:
			out[id] = repository.ClassUnknown
		}
	}
	return out, nil
}
func (f *fakeKnowledgeRepo) ListEncounteredCandidates(ctx context.Context) ([]repository.EncounteredCandidate, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) CountInBox(ctx context.Context, box int) (int, error) { return 0, nil }
func (f *fakeKnowledgeRepo) CountRecentlyLapsedSiblings(ctx context.Context, lemmaIDs []string, now time.Time, window time.Duration) (int, error) {
	return 0, nil
}
func (f *fakeKnowledgeRepo) ListActiveTargetLemmaIDs(ctx context.Context) ([]string, error) {
	var out []string
	for id, rec := range f.byLemma {
		switch rec.State {
		case domain.StateAcquiring, domain.StateLearning, domain.StateKnown, domain.StateLapsed:
			out = append(out, id)
		}
	}
	return out, nil
}
func (f *fakeKnowledgeRepo) ListSuspended(ctx context.Context) ([]*domain.KnowledgeRecord, error) {
	var out []*domain.KnowledgeRecord
	for _, rec := range f.byLemma {
		if rec.State == domain.StateSuspended {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeLemmaRepo struct {
	byID map[string]*domain.Lemma
}

func newFakeLemmaRepo() *fakeLemmaRepo {
	return &fakeLemmaRepo{byID: make(map[string]*domain.Lemma)}
}

func (f *fakeLemmaRepo) Create(ctx context.Context, l *domain.Lemma) error {
	f.byID[l.ID] = l
	return nil
}
func (f *fakeLemmaRepo) GetByID(ctx context.Context, id string) (*domain.Lemma, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return l, nil
}
func (f *fakeLemmaRepo) GetByBare(ctx context.Context, bare string) (*domain.Lemma, error) {
	for _, l := range f.byID {
		if l.Bare == bare {
			return l, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (f *fakeLemmaRepo) GetByInflectedForm(ctx context.Context, surface string) (*domain.Lemma, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeLemmaRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Lemma, error) {
	var out []*domain.Lemma
	for _, id := range ids {
		if l, ok := f.byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}
func (f *fakeLemmaRepo) Update(ctx context.Context, l *domain.Lemma) error {
	f.byID[l.ID] = l
	return nil
}
func (f *fakeLemmaRepo) ListVariantsOf(ctx context.Context, canonicalID string) ([]*domain.Lemma, error) {
	return nil, nil
}

type fakeRootRepo struct{}

func (fakeRootRepo) Create(ctx context.Context, r *domain.Root) error { return nil }
func (fakeRootRepo) GetByID(ctx context.Context, id string) (*domain.Root, error) {
	return nil, repository.ErrNotFound
}
func (fakeRootRepo) ListSiblingLemmaIDs(ctx context.Context, rootID string) ([]string, error) {
	return nil, nil
}

type fakeVariantRepo struct{}

func (fakeVariantRepo) Get(ctx context.Context, a, b string) (*domain.VariantDecision, error) {
	return nil, repository.ErrNotFound
}
func (fakeVariantRepo) Put(ctx context.Context, d *domain.VariantDecision) error { return nil }

// fakeOracle generates a fixed sentence using the given bare forms as its
// Arabic text (space-joined), so the resolver can resolve each word back
// to its lemma, and reviews according to approve.
type fakeOracle struct {
	approve bool
	reason  string
}

func (f *fakeOracle) ConfirmVariant(ctx context.Context, req llm.VariantConfirmRequest) (llm.VariantConfirmResult, error) {
	return llm.VariantConfirmResult{}, nil
}

func (f *fakeOracle) GenerateSentence(ctx context.Context, req llm.SentenceGenerateRequest) (llm.SentenceGenerateResult, error) {
	arabic := ""
	for i, bare := range req.TargetBares {
		if i > 0 {
			arabic += " "
		}
		arabic += bare
	}
	return llm.SentenceGenerateResult{Arabic: arabic, English: "a generated sentence"}, nil
}

func (f *fakeOracle) ReviewSentence(ctx context.Context, req llm.SentenceReviewRequest) (llm.SentenceReviewResult, error) {
	return llm.SentenceReviewResult{Approved: f.approve, Reason: f.reason}, nil
}

// erroringOracle simulates an unreachable reviewer, for the fail-closed path.
type erroringOracle struct{}

func (erroringOracle) ConfirmVariant(ctx context.Context, req llm.VariantConfirmRequest) (llm.VariantConfirmResult, error) {
	return llm.VariantConfirmResult{}, errOracleDown
}
func (erroringOracle) GenerateSentence(ctx context.Context, req llm.SentenceGenerateRequest) (llm.SentenceGenerateResult, error) {
	return llm.SentenceGenerateResult{}, errOracleDown
}
func (erroringOracle) ReviewSentence(ctx context.Context, req llm.SentenceReviewRequest) (llm.SentenceReviewResult, error) {
	return llm.SentenceReviewResult{}, errOracleDown
}

var errOracleDown = fmt.Errorf("oracle: unreachable")
