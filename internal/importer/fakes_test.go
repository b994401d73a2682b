package importer

import (
	"context"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/repository"
)

type fakeLemmaRepo struct {
	byID   map[string]*domain.Lemma
	byBare map[string]*domain.Lemma
}

func newFakeLemmaRepo() *fakeLemmaRepo {
	return &fakeLemmaRepo{byID: map[string]*domain.Lemma{}, byBare: map[string]*domain.Lemma{}}
}

func (f *fakeLemmaRepo) Create(ctx context.Context, l *domain.Lemma) error {
	f.byID[l.ID] = l
	f.byBare[l.Bare] = l
	return nil
}
func (f *fakeLemmaRepo) GetByID(ctx context.Context, id string) (*domain.Lemma, error) {
	if l, ok := f.byID[id]; ok {
		return l, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeLemmaRepo) GetByBare(ctx context.Context, bare string) (*domain.Lemma, error) {
	if l, ok := f.byBare[bare]; ok {
		return l, nil
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

type fakeRootRepo struct {
	roots map[string]*domain.Root
}

func newFakeRootRepo() *fakeRootRepo { return &fakeRootRepo{roots: map[string]*domain.Root{}} }

func (f *fakeRootRepo) Create(ctx context.Context, r *domain.Root) error {
	f.roots[r.ID] = r
	return nil
}
func (f *fakeRootRepo) GetByID(ctx context.Context, id string) (*domain.Root, error) {
	if r, ok := f.roots[id]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeRootRepo) ListSiblingLemmaIDs(ctx context.Context, rootID string) ([]string, error) {
	return nil, nil
}

type fakeKnowledgeRepo struct {
	records map[string]*domain.KnowledgeRecord
}

func newFakeKnowledgeRepo() *fakeKnowledgeRepo {
	return &fakeKnowledgeRepo{records: map[string]*domain.KnowledgeRecord{}}
}

func (f *fakeKnowledgeRepo) Create(ctx context.Context, r *domain.KnowledgeRecord) error {
	f.records[r.LemmaID] = r
	return nil
}
func (f *fakeKnowledgeRepo) GetByID(ctx context.Context, id string) (*domain.KnowledgeRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (f *fakeKnowledgeRepo) GetByLemmaID(ctx context.Context, lemmaID string) (*domain.KnowledgeRecord, error) {
	if r, ok := f.records[lemmaID]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeKnowledgeRepo) Update(ctx context.Context, r *domain.KnowledgeRecord) error {
	f.records[r.LemmaID] = r
	return nil
}
func (f *fakeKnowledgeRepo) ListByLemmaIDs(ctx context.Context, lemmaIDs []string) ([]*domain.KnowledgeRecord, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) ListDueAcquiring(ctx context.Context, now interface{}) ([]*domain.KnowledgeRecord, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) ClassifyComprehensibility(ctx context.Context, lemmaIDs []string) (map[string]repository.ComprehensibilityClass, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) ListEncounteredCandidates(ctx context.Context) ([]repository.EncounteredCandidate, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) CountInBox(ctx context.Context, box int) (int, error) { return 0, nil }
func (f *fakeKnowledgeRepo) ListActiveTargetLemmaIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) ListSuspended(ctx context.Context) ([]*domain.KnowledgeRecord, error) {
	var out []*domain.KnowledgeRecord
	for _, r := range f.records {
		if r.State == domain.StateSuspended {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSentenceRepo struct {
	sentences map[string]*domain.Sentence
}

func newFakeSentenceRepo() *fakeSentenceRepo {
	return &fakeSentenceRepo{sentences: map[string]*domain.Sentence{}}
}

func (f *fakeSentenceRepo) Create(ctx context.Context, s *domain.Sentence) error {
	f.sentences[s.ID] = s
	return nil
}
func (f *fakeSentenceRepo) GetByID(ctx context.Context, id string) (*domain.Sentence, error) {
	if s, ok := f.sentences[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeSentenceRepo) Update(ctx context.Context, s *domain.Sentence) error {
	f.sentences[s.ID] = s
	return nil
}
func (f *fakeSentenceRepo) Delete(ctx context.Context, id string) error {
	delete(f.sentences, id)
	return nil
}
func (f *fakeSentenceRepo) ListActive(ctx context.Context) ([]*domain.Sentence, error) { return nil, nil }
func (f *fakeSentenceRepo) ListActiveCovering(ctx context.Context, lemmaIDs []string) ([]*domain.Sentence, error) {
	return nil, nil
}
func (f *fakeSentenceRepo) ListDormant(ctx context.Context) ([]*domain.Sentence, error) { return nil, nil }
func (f *fakeSentenceRepo) CountActive(ctx context.Context) (int, error)                { return 0, nil }
func (f *fakeSentenceRepo) CountActiveByTarget(ctx context.Context, lemmaID string) (int, error) {
	return 0, nil
}
func (f *fakeSentenceRepo) ListRetirementCandidates(ctx context.Context, staleLemmaIDs []string) ([]*domain.Sentence, error) {
	return nil, nil
}
