package autointro

import (
	"context"
	"time"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/repository"
)

type fakeKnowledgeRepo struct {
	byLemma        map[string]*domain.KnowledgeRecord
	encountered    []repository.EncounteredCandidate
	box1Count      int
	lapsedSiblings map[string]int // keyed by the sorted-joined sibling set isn't practical; keyed by first sibling id
}

func newFakeKnowledgeRepo() *fakeKnowledgeRepo {
	return &fakeKnowledgeRepo{byLemma: make(map[string]*domain.KnowledgeRecord), lapsedSiblings: make(map[string]int)}
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
	return nil, nil
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
	return nil, nil
}
func (f *fakeKnowledgeRepo) ListEncounteredCandidates(ctx context.Context) ([]repository.EncounteredCandidate, error) {
	return f.encountered, nil
}
func (f *fakeKnowledgeRepo) CountInBox(ctx context.Context, box int) (int, error) {
	return f.box1Count, nil
}
func (f *fakeKnowledgeRepo) CountRecentlyLapsedSiblings(ctx context.Context, lemmaIDs []string, now time.Time, window time.Duration) (int, error) {
	if len(lemmaIDs) == 0 {
		return 0, nil
	}
	return f.lapsedSiblings[lemmaIDs[0]], nil
}
func (f *fakeKnowledgeRepo) ListActiveTargetLemmaIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}
func (f *fakeKnowledgeRepo) ListSuspended(ctx context.Context) ([]*domain.KnowledgeRecord, error) {
	var out []*domain.KnowledgeRecord
	for _, r := range f.byLemma {
		if r.State == domain.StateSuspended {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeReviewLogRepo struct {
	logs []*domain.ReviewLog
}

func (f *fakeReviewLogRepo) Append(ctx context.Context, log *domain.ReviewLog) error { return nil }
func (f *fakeReviewLogRepo) Exists(ctx context.Context, clientReviewID string) (bool, error) {
	return false, nil
}
func (f *fakeReviewLogRepo) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeReviewLogRepo) GetLatestForLemma(ctx context.Context, lemmaID, sessionPrefix string) (*domain.ReviewLog, error) {
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
	return nil, nil
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
