package session

import (
	"context"
	"sort"
	"time"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/repository"
)

type fakeKnowledgeRepo struct {
	records map[string]*domain.KnowledgeRecord

	dueAcquiring []string
	dueFSRS      []string
	cohortFill   []string
	classes      map[string]repository.ComprehensibilityClass
	encountered  []repository.EncounteredCandidate
	box1Count    int
	lapsed       map[string]int
}

func newFakeKnowledgeRepo() *fakeKnowledgeRepo {
	return &fakeKnowledgeRepo{
		records: make(map[string]*domain.KnowledgeRecord),
		classes: make(map[string]repository.ComprehensibilityClass),
		lapsed:  make(map[string]int),
	}
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
	r, ok := f.records[lemmaID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeKnowledgeRepo) Update(ctx context.Context, r *domain.KnowledgeRecord) error {
	f.records[r.LemmaID] = r
	return nil
}

func (f *fakeKnowledgeRepo) ListByLemmaIDs(ctx context.Context, lemmaIDs []string) ([]*domain.KnowledgeRecord, error) {
	var out []*domain.KnowledgeRecord
	for _, id := range lemmaIDs {
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) ListDueAcquiring(ctx context.Context, now time.Time) ([]*domain.KnowledgeRecord, error) {
	var out []*domain.KnowledgeRecord
	for _, id := range f.dueAcquiring {
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) ListDueFSRS(ctx context.Context, now time.Time, window time.Duration) ([]*domain.KnowledgeRecord, error) {
	var out []*domain.KnowledgeRecord
	for _, id := range f.dueFSRS {
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) ListFocusCohortFill(ctx context.Context, cap int, excludeLemmaIDs []string) ([]*domain.KnowledgeRecord, error) {
	exclude := make(map[string]bool, len(excludeLemmaIDs))
	for _, id := range excludeLemmaIDs {
		exclude[id] = true
	}
	var out []*domain.KnowledgeRecord
	for _, id := range f.cohortFill {
		if exclude[id] || len(out) >= cap {
			continue
		}
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) ClassifyComprehensibility(ctx context.Context, lemmaIDs []string) (map[string]repository.ComprehensibilityClass, error) {
	out := make(map[string]repository.ComprehensibilityClass, len(lemmaIDs))
	for _, id := range lemmaIDs {
		if c, ok := f.classes[id]; ok {
			out[id] = c
		} else {
			out[id] = repository.ClassConsolidated
		}
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) ListEncounteredCandidates(ctx context.Context) ([]repository.EncounteredCandidate, error) {
	return f.encountered, nil
}

func (f *fakeKnowledgeRepo) CountInBox(ctx context.Context, box int) (int, error) {
	return f.box1Count, nil
}

func (f *fakeKnowledgeRepo) CountRecentlyLapsedSiblings(ctx context.Context, lemmaIDs []string, now time.Time, window time.Duration) (int, error) {
	for _, id := range lemmaIDs {
		if n, ok := f.lapsed[id]; ok {
			return n, nil
		}
	}
	return 0, nil
}

func (f *fakeKnowledgeRepo) ListActiveTargetLemmaIDs(ctx context.Context) ([]string, error) {
	var out []string
	for id, r := range f.records {
		if r.State != domain.StateSuspended {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
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
	return &fakeSentenceRepo{sentences: make(map[string]*domain.Sentence)}
}

func (f *fakeSentenceRepo) Create(ctx context.Context, s *domain.Sentence) error {
	f.sentences[s.ID] = s
	return nil
}
func (f *fakeSentenceRepo) GetByID(ctx context.Context, id string) (*domain.Sentence, error) {
	s, ok := f.sentences[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}
func (f *fakeSentenceRepo) Update(ctx context.Context, s *domain.Sentence) error {
	f.sentences[s.ID] = s
	return nil
}
func (f *fakeSentenceRepo) Delete(ctx context.Context, id string) error {
	delete(f.sentences, id)
	return nil
}
func (f *fakeSentenceRepo) ListActive(ctx context.Context) ([]*domain.Sentence, error) {
	var out []*domain.Sentence
	for _, s := range f.sentences {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeSentenceRepo) ListActiveCovering(ctx context.Context, lemmaIDs []string) ([]*domain.Sentence, error) {
	wanted := make(map[string]bool, len(lemmaIDs))
	for _, id := range lemmaIDs {
		wanted[id] = true
	}
	var out []*domain.Sentence
	for _, s := range f.sentences {
		if !s.Active {
			continue
		}
		for _, id := range s.ContentLemmaIDs() {
			if wanted[id] {
				out = append(out, s)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (f *fakeSentenceRepo) ListDormant(ctx context.Context) ([]*domain.Sentence, error) { return nil, nil }
func (f *fakeSentenceRepo) CountActive(ctx context.Context) (int, error)                { return len(f.sentences), nil }
func (f *fakeSentenceRepo) CountActiveByTarget(ctx context.Context, lemmaID string) (int, error) {
	n := 0
	for _, s := range f.sentences {
		if s.IsTarget(lemmaID) {
			n++
		}
	}
	return n, nil
}
func (f *fakeSentenceRepo) ListRetirementCandidates(ctx context.Context, staleLemmaIDs []string) ([]*domain.Sentence, error) {
	return nil, nil
}

type fakeLemmaRepo struct {
	lemmas map[string]*domain.Lemma
}

func newFakeLemmaRepo() *fakeLemmaRepo {
	return &fakeLemmaRepo{lemmas: make(map[string]*domain.Lemma)}
}

func (f *fakeLemmaRepo) Create(ctx context.Context, l *domain.Lemma) error {
	f.lemmas[l.ID] = l
	return nil
}
func (f *fakeLemmaRepo) GetByID(ctx context.Context, id string) (*domain.Lemma, error) {
	l, ok := f.lemmas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return l, nil
}
func (f *fakeLemmaRepo) GetByBare(ctx context.Context, bare string) (*domain.Lemma, error) {
	for _, l := range f.lemmas {
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
		if l, ok := f.lemmas[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}
func (f *fakeLemmaRepo) Update(ctx context.Context, l *domain.Lemma) error {
	f.lemmas[l.ID] = l
	return nil
}
func (f *fakeLemmaRepo) ListVariantsOf(ctx context.Context, canonicalID string) ([]*domain.Lemma, error) {
	var out []*domain.Lemma
	for _, l := range f.lemmas {
		if l.CanonicalLemmaID != nil && *l.CanonicalLemmaID == canonicalID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeReviewLogRepo struct {
	logs map[string]*domain.ReviewLog
}

func newFakeReviewLogRepo() *fakeReviewLogRepo {
	return &fakeReviewLogRepo{logs: make(map[string]*domain.ReviewLog)}
}

func (f *fakeReviewLogRepo) Append(ctx context.Context, log *domain.ReviewLog) error {
	if _, ok := f.logs[log.ClientReviewID]; ok {
		return nil
	}
	f.logs[log.ClientReviewID] = log
	return nil
}
func (f *fakeReviewLogRepo) Exists(ctx context.Context, clientReviewID string) (bool, error) {
	_, ok := f.logs[clientReviewID]
	return ok, nil
}
func (f *fakeReviewLogRepo) Delete(ctx context.Context, id string) error {
	delete(f.logs, id)
	return nil
}
func (f *fakeReviewLogRepo) GetLatestForLemma(ctx context.Context, lemmaID, sessionPrefix string) (*domain.ReviewLog, error) {
	for _, l := range f.logs {
		if l.LemmaID == lemmaID {
			return l, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (f *fakeReviewLogRepo) ListRecent(ctx context.Context, since time.Time) ([]*domain.ReviewLog, error) {
	var out []*domain.ReviewLog
	for _, l := range f.logs {
		if !l.ReviewedAt.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}
func (f *fakeReviewLogRepo) ListByLemma(ctx context.Context, lemmaID string) ([]*domain.ReviewLog, error) {
	var out []*domain.ReviewLog
	for _, l := range f.logs {
		if l.LemmaID == lemmaID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeRootRepo struct {
	siblings map[string][]string
}

func (f *fakeRootRepo) Create(ctx context.Context, r *domain.Root) error { return nil }
func (f *fakeRootRepo) GetByID(ctx context.Context, id string) (*domain.Root, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeRootRepo) ListSiblingLemmaIDs(ctx context.Context, rootID string) ([]string, error) {
	return f.siblings[rootID], nil
}
