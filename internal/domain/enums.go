package domain

// KnowledgeState is the top-level lifecycle state of a KnowledgeRecord.
type KnowledgeState string

const (
	StateEncountered KnowledgeState = "encountered"
	StateAcquiring   KnowledgeState = "acquiring"
	StateLearning    KnowledgeState = "learning"
	StateKnown       KnowledgeState = "known"
	StateLapsed      KnowledgeState = "lapsed"
	StateSuspended   KnowledgeState = "suspended"
)

// WordCategory classifies a lemma for scheduling eligibility purposes.
type WordCategory string

const (
	CategoryStandard     WordCategory = "standard"
	CategoryProperName   WordCategory = "proper_name"
	CategoryOnomatopoeia WordCategory = "onomatopoeia"
	CategoryJunk         WordCategory = "junk"
)

// SentenceSource records how a sentence entered the material pool.
type SentenceSource string

const (
	SourceLLMGenerated SentenceSource = "llm_generated"
	SourceBookOCR      SentenceSource = "book_ocr"
	SourceStoryOCR     SentenceSource = "story_ocr"
	SourceCourseImport SentenceSource = "course_import"
)

// EntrySource records how a lemma's KnowledgeRecord was first created.
type EntrySource string

const (
	EntryBook          EntrySource = "book"
	EntryStory         EntrySource = "story"
	EntryCourse        EntrySource = "course"
	EntryFrequencyList EntrySource = "frequency_list"
	EntryManual        EntrySource = "manual"
)

// Rating is the raw user rating of a single review.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// CreditType distinguishes why a particular lemma received review credit
// for a given sentence.
type CreditType string

const (
	CreditTarget          CreditType = "target"
	CreditScaffold        CreditType = "scaffold"
	CreditVariantRedirect CreditType = "variant_redirect"
)

// ComprehensionRating is the user's whole-sentence self-assessment.
type ComprehensionRating string

const (
	ComprehensionUnderstood ComprehensionRating = "understood"
	ComprehensionPartial    ComprehensionRating = "partial"
	ComprehensionNoIdea     ComprehensionRating = "no_idea"
)

// VariantVerdict is the result of confirming whether two lemmas are the
// same learning unit.
type VariantVerdict string

const (
	VariantEquivalent VariantVerdict = "equivalent"
	VariantDistinct   VariantVerdict = "distinct"
)
