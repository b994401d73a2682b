package session

import (
	"context"
	"testing"
	"time"

	"github.com/houshuang/alif/internal/autointro"
	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/fsrs"
	"github.com/houshuang/alif/internal/material"
)

type testHarness struct {
	knowledge *fakeKnowledgeRepo
	sentences *fakeSentenceRepo
	lemmas    *fakeLemmaRepo
	logs      *fakeReviewLogRepo
	roots     *fakeRootRepo
	builder   *Builder
}

func newHarness() *testHarness {
	h := &testHarness{
		knowledge: newFakeKnowledgeRepo(),
		sentences: newFakeSentenceRepo(),
		lemmas:    newFakeLemmaRepo(),
		logs:      newFakeReviewLogRepo(),
		roots:     &fakeRootRepo{siblings: map[string][]string{}},
	}
	params := testParams()
	fsrsScheduler := fsrs.New(h.knowledge, h.logs, params.FSRS, params.Leech)
	pipeline := material.New(h.sentences, h.knowledge, h.lemmas, h.roots, nil, nil, params.Material, params.Leech)
	intro := autointro.New(h.knowledge, h.logs, h.roots, params.AutoIntro)
	h.builder = New(h.knowledge, h.sentences, h.lemmas, h.logs, fsrsScheduler, pipeline, intro, params)
	return h
}

func (h *testHarness) addLemma(id string) {
	h.lemmas.lemmas[id] = newLemma(id)
}

func (h *testHarness) addSentence(s *domain.Sentence) {
	h.sentences.sentences[s.ID] = s
}

func TestBuildSession_AcquiringAndGraduatedCoverage(t *testing.T) {
	h := newHarness()
	now := time.Now()

	h.addLemma("word-a")
	h.addLemma("word-b")
	h.knowledge.records["word-a"] = newAcquiringRecord("word-a", 1, now.Add(-time.Hour))
	h.knowledge.dueAcquiring = []string{"word-a"}

	h.knowledge.records["word-b"] = newGraduatedRecord("word-b", 10, now.Add(-48*time.Hour))
	h.knowledge.dueFSRS = []string{"word-b"}
	h.knowledge.cohortFill = []string{"word-b"}

	h.addSentence(newSentence("s1", []string{"word-a"}, nil))
	h.addSentence(newSentence("s2", []string{"word-b"}, nil))

	sess, err := h.builder.BuildSession(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}
	if sess.Size() == 0 {
		t.Fatalf("expected a non-empty session")
	}
	coveredLemmas := map[string]bool{}
	for _, it := range sess.Items {
		for _, id := range it.TargetLemmaIDs {
			coveredLemmas[id] = true
		}
	}
	if !coveredLemmas["word-a"] || !coveredLemmas["word-b"] {
		t.Fatalf("expected both due lemmas covered, got %v", coveredLemmas)
	}
	if len(sess.UnmetDue) != 0 {
		t.Fatalf("expected no unmet due lemmas, got %v", sess.UnmetDue)
	}
}

func TestBuildSession_SuspendedRecordExcluded(t *testing.T) {
	h := newHarness()
	now := time.Now()

	h.addLemma("word-a")
	rec := newAcquiringRecord("word-a", 1, now.Add(-time.Hour))
	rec.State = domain.StateSuspended
	h.knowledge.records["word-a"] = rec
	h.knowledge.dueAcquiring = []string{"word-a"}

	sess, err := h.builder.BuildSession(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}
	if sess.Size() != 0 {
		t.Fatalf("expected empty session for suspended-only due set, got %d items", sess.Size())
	}
}

func TestBuildSession_VariantRecordExcluded(t *testing.T) {
	h := newHarness()
	now := time.Now()

	canonical := "word-a"
	h.addLemma(canonical)
	variant := newLemma("word-a-variant")
	variant.CanonicalLemmaID = &canonical
	h.lemmas.lemmas["word-a-variant"] = variant

	h.knowledge.records["word-a-variant"] = newAcquiringRecord("word-a-variant", 1, now.Add(-time.Hour))
	h.knowledge.dueAcquiring = []string{"word-a-variant"}

	sess, err := h.builder.BuildSession(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}
	if sess.Size() != 0 {
		t.Fatalf("expected variant lemma dropped from schedulable due set, got %d items", sess.Size())
	}
}

func TestBuildSession_ComprehensibilityGateRejectsLowFraction(t *testing.T) {
	h := newHarness()
	now := time.Now()

	h.addLemma("target")
	h.addLemma("scaffold-unknown")
	h.knowledge.records["target"] = newAcquiringRecord("target", 1, now.Add(-time.Hour))
	h.knowledge.dueAcquiring = []string{"target"}
	h.knowledge.classes["scaffold-unknown"] = 0 // ClassUnknown

	h.addSentence(newSentence("s1", []string{"target"}, []string{"scaffold-unknown"}))

	sess, err := h.builder.BuildSession(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}
	for _, id := range sess.UnmetDue {
		if id == "target" {
			return
		}
	}
	t.Fatalf("expected 'target' to be unmet after gate rejects its only sentence, got session=%+v", sess)
}

func TestBuildSession_AcquisitionRepetitionTopsUp(t *testing.T) {
	h := newHarness()
	now := time.Now()
	h.builder.params.MinAcquisitionExposures = 3

	h.addLemma("word-a")
	h.knowledge.records["word-a"] = newAcquiringRecord("word-a", 1, now.Add(-time.Hour))
	h.knowledge.dueAcquiring = []string{"word-a"}

	h.addSentence(newSentence("s1", []string{"word-a"}, nil))
	h.addSentence(newSentence("s2", []string{"word-a"}, nil))
	h.addSentence(newSentence("s3", []string{"word-a"}, nil))
	h.addSentence(newSentence("s4", []string{"word-a"}, nil))

	sess, err := h.builder.BuildSession(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}
	exposures := 0
	for _, it := range sess.Items {
		if containsLemma(it.Sentence, "word-a") {
			exposures++
		}
	}
	if exposures < 3 {
		t.Fatalf("expected at least 3 exposures of word-a, got %d", exposures)
	}
}

func TestBuildSession_NoDueReturnsEmptySession(t *testing.T) {
	h := newHarness()
	sess, err := h.builder.BuildSession(context.Background(), time.Now(), 10)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}
	if sess.Size() != 0 {
		t.Fatalf("expected empty session, got %d items", sess.Size())
	}
}

func TestOrderItems_EasyBookendsHardMiddle(t *testing.T) {
	items := []Item{
		{Sentence: newSentence("e1", nil, []string{"x"}), Acquiring: false},
		{Sentence: newSentence("e2", nil, []string{"x"}), Acquiring: false},
		{Sentence: newSentence("h1", []string{"a"}, nil), TargetLemmaIDs: []string{"a"}, Acquiring: true},
		{Sentence: newSentence("h2", []string{"b"}, nil), TargetLemmaIDs: []string{"b"}, Acquiring: true},
		{Sentence: newSentence("e3", nil, []string{"x"}), Acquiring: false},
		{Sentence: newSentence("e4", nil, []string{"x"}), Acquiring: false},
	}
	ordered := orderItems(items)
	if len(ordered) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(ordered))
	}
	if ordered[0].Acquiring {
		t.Fatalf("expected first item to be easy (warm-up), got acquiring item %s", ordered[0].Sentence.ID)
	}
	if ordered[len(ordered)-1].Acquiring {
		t.Fatalf("expected last item to be easy (recency), got acquiring item %s", ordered[len(ordered)-1].Sentence.ID)
	}
}

func TestOrderItems_NoAdjacentSameLemmaRepetition(t *testing.T) {
	items := []Item{
		{Sentence: newSentence("h1", []string{"a"}, nil), TargetLemmaIDs: []string{"a"}, Acquiring: true},
		{Sentence: newSentence("h2", []string{"a"}, nil), TargetLemmaIDs: []string{"a"}, Acquiring: true},
		{Sentence: newSentence("h3", []string{"b"}, nil), TargetLemmaIDs: []string{"b"}, Acquiring: true},
		{Sentence: newSentence("h4", []string{"b"}, nil), TargetLemmaIDs: []string{"b"}, Acquiring: true},
	}
	hard := interleaveRepetitions(items)
	for i := 1; i < len(hard); i++ {
		if primaryLemma(hard[i]) == primaryLemma(hard[i-1]) {
			t.Fatalf("expected no adjacent same-lemma repetition, got %s then %s", hard[i-1].Sentence.ID, hard[i].Sentence.ID)
		}
	}
}
