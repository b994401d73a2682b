package importer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/houshuang/alif/internal/domain"
	"github.com/houshuang/alif/internal/identity"
	"github.com/houshuang/alif/internal/repository"
)

// entrySourceFor and sentenceSourceFor map a batch's source string to the
// KnowledgeRecord entry source and (where applicable) the sentence source
// it produces.
var (
	entrySourceFor = map[string]domain.EntrySource{
		"book":           domain.EntryBook,
		"story":          domain.EntryStory,
		"course":         domain.EntryCourse,
		"frequency_list": domain.EntryFrequencyList,
	}
	sentenceSourceFor = map[string]domain.SentenceSource{
		"book":   domain.SourceBookOCR,
		"story":  domain.SourceStoryOCR,
		"course": domain.SourceCourseImport,
	}
)

// Ingester runs a validated CandidateBatch through the Identity Resolver,
// creating new encountered lemmas and page-tagged sentences (spec §4.1,
// §3's "ingest collaborators" data flow). Convert's teacher-era project-
// import conversion is replaced by this domain's actual ingest boundary.
type Ingester struct {
	lemmas    repository.LemmaRepo
	roots     repository.RootRepo
	knowledge repository.KnowledgeRepo
	sentences repository.SentenceRepo
	resolver  *identity.Resolver
}

// NewIngester builds an Ingester over the given repositories and resolver.
func NewIngester(lemmas repository.LemmaRepo, roots repository.RootRepo, knowledge repository.KnowledgeRepo, sentences repository.SentenceRepo, resolver *identity.Resolver) *Ingester {
	return &Ingester{lemmas: lemmas, roots: roots, knowledge: knowledge, sentences: sentences, resolver: resolver}
}

// Result reports what Ingest did, including any candidates or sentences it
// skipped with a reason rather than fail the whole batch.
type Result struct {
	CreatedLemmaIDs    []string
	CreatedSentenceIDs []string
	Warnings           []string
}

// Ingest processes a validated batch (call ValidateCandidateBatch first).
// Each candidate either resolves to an existing lemma (a no-op, the word
// is already known) or becomes a new lemma with an encountered-state
// KnowledgeRecord; each sentence has its tokens mapped through the
// resolver the same way the material pipeline does for generated
// sentences, going active only once every token resolves.
func (ing *Ingester) Ingest(ctx context.Context, batch *CandidateBatch) (*Result, error) {
	now := time.Now().UTC()
	result := &Result{}

	for _, c := range batch.Candidates {
		if err := ing.ingestCandidate(ctx, batch.Source, c, now, result); err != nil {
			return nil, fmt.Errorf("ingesting candidate %q: %w", c.Surface, err)
		}
	}

	for _, s := range batch.Sentences {
		if err := ing.ingestSentence(ctx, batch.Source, batch.PageNumber, s, now, result); err != nil {
			return nil, fmt.Errorf("ingesting sentence %q: %w", s.Arabic, err)
		}
	}

	return result, nil
}

func (ing *Ingester) ingestCandidate(ctx context.Context, source string, c CandidateImport, now time.Time, result *Result) error {
	surface := identity.StripBoundaryPunctuation(c.Surface)
	if reason := garbageReason(surface); reason != "" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("rejected candidate %q: %s", c.Surface, reason))
		return nil
	}

	existingID, err := ing.resolver.Resolve(ctx, surface)
	if err != nil {
		return fmt.Errorf("resolving candidate: %w", err)
	}
	if existingID != nil {
		return nil // already known; not a new word
	}

	var rootID *string
	if c.RootRadicals != "" {
		id, err := ing.ingestRoot(ctx, c.RootRadicals, c.RootGloss, result)
		if err != nil {
			return err
		}
		rootID = id
	}

	lemma := &domain.Lemma{
		ID:       uuid.NewString(),
		Bare:     identity.Normalize(surface),
		Gloss:    c.Gloss,
		RootID:   rootID,
		Category: domain.CategoryStandard,
	}
	if c.FrequencyRank != nil {
		lemma.FrequencyRank = c.FrequencyRank
	}
	if err := ing.lemmas.Create(ctx, lemma); err != nil {
		return fmt.Errorf("creating lemma: %w", err)
	}

	rec := &domain.KnowledgeRecord{
		ID:        uuid.NewString(),
		LemmaID:   lemma.ID,
		State:     domain.StateEncountered,
		Source:    entrySourceFor[source],
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ing.knowledge.Create(ctx, rec); err != nil {
		return fmt.Errorf("creating knowledge record: %w", err)
	}

	result.CreatedLemmaIDs = append(result.CreatedLemmaIDs, lemma.ID)
	return nil
}

// ingestRoot parses a space-separated radical sequence and validates it
// per spec §3 (Arabic script, 3-4 radicals); an invalid root is dropped
// with a warning rather than failing the candidate — the lemma is still
// created, just without a root family.
func (ing *Ingester) ingestRoot(ctx context.Context, radicals, gloss string, result *Result) (*string, error) {
	var runes []rune
	for _, r := range strings.Fields(radicals) {
		rs := []rune(r)
		if len(rs) != 1 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("rejected root %q: radical %q is not a single character", radicals, r))
			return nil, nil
		}
		runes = append(runes, rs[0])
	}

	root := domain.Root{ID: uuid.NewString(), Radicals: runes, Gloss: gloss}
	if err := domain.ValidateRoot(root); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("rejected root %q: %v", radicals, err))
		return nil, nil
	}
	if err := ing.roots.Create(ctx, &root); err != nil {
		return nil, fmt.Errorf("creating root: %w", err)
	}
	return &root.ID, nil
}

func (ing *Ingester) ingestSentence(ctx context.Context, source string, batchPage *int, s SentenceImport, now time.Time, result *Result) error {
	words := strings.Fields(s.Arabic)
	tokens := make([]domain.SentenceToken, len(words))
	for i, w := range words {
		lemmaID, err := ing.resolver.Resolve(ctx, w)
		if err != nil {
			return fmt.Errorf("resolving token %q: %w", w, err)
		}
		tokens[i] = domain.SentenceToken{Position: i, Surface: w, LemmaID: lemmaID}
	}

	page := batchPage
	if s.PageNumber != nil {
		page = s.PageNumber
	}

	sentence := &domain.Sentence{
		ID:         uuid.NewString(),
		Arabic:     s.Arabic,
		English:    s.English,
		Tokens:     tokens,
		Source:     sentenceSourceFor[source],
		PageNumber: page,
		CreatedAt:  now,
	}
	sentence.Active = sentence.AllTokensResolved()
	if !sentence.Active {
		result.Warnings = append(result.Warnings, fmt.Sprintf("sentence %q stored dormant: unresolved tokens", s.Arabic))
	}

	if err := ing.sentences.Create(ctx, sentence); err != nil {
		return fmt.Errorf("storing sentence: %w", err)
	}
	result.CreatedSentenceIDs = append(result.CreatedSentenceIDs, sentence.ID)
	return nil
}

// garbageReason implements spec §3's garbage-input rejection list for a
// single candidate surface: too short to be a real word, or containing no
// Arabic script at all. Multi-word rejection happens earlier, at
// ValidateCandidateBatch.
func garbageReason(surface string) string {
	runes := []rune(surface)
	if len(runes) < 2 {
		return "single-character abbreviation"
	}
	if !containsArabicScript(surface) {
		return "contains no Arabic script (Latin-only string)"
	}
	return ""
}

func containsArabicScript(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
