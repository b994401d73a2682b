package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrInt(i int) *int { return &i }

func TestValidateCandidateBatch_Valid(t *testing.T) {
	batch := &CandidateBatch{
		Source: "book",
		Candidates: []CandidateImport{
			{Surface: "كتاب", Gloss: "book"},
		},
	}
	assert.Empty(t, ValidateCandidateBatch(batch))
}

func TestValidateCandidateBatch_UnknownSource(t *testing.T) {
	batch := &CandidateBatch{
		Source:     "magazine",
		Candidates: []CandidateImport{{Surface: "كتاب"}},
	}
	errs := ValidateCandidateBatch(batch)
	assert.NotEmpty(t, errs)
}

func TestValidateCandidateBatch_EmptyBatch(t *testing.T) {
	batch := &CandidateBatch{Source: "book"}
	errs := ValidateCandidateBatch(batch)
	assert.NotEmpty(t, errs)
}

func TestValidateCandidateBatch_MultiWordRejected(t *testing.T) {
	batch := &CandidateBatch{
		Source:     "book",
		Candidates: []CandidateImport{{Surface: "كتاب جديد"}},
	}
	errs := ValidateCandidateBatch(batch)
	assert.NotEmpty(t, errs)
}

func TestValidateCandidateBatch_MissingSurface(t *testing.T) {
	batch := &CandidateBatch{
		Source:     "book",
		Candidates: []CandidateImport{{Surface: "  "}},
	}
	errs := ValidateCandidateBatch(batch)
	assert.NotEmpty(t, errs)
}

func TestValidateCandidateBatch_MissingSentenceArabic(t *testing.T) {
	batch := &CandidateBatch{
		Source:    "story",
		Sentences: []SentenceImport{{English: "hello"}},
	}
	errs := ValidateCandidateBatch(batch)
	assert.NotEmpty(t, errs)
}
