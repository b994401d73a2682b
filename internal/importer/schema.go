// Package importer is the JSON contract an ingest collaborator (OCR for
// books/scans, a parallel-text importer, a frequency-list importer, a
// course importer) uses to hand a batch of candidate words and optionally
// page-tagged sentences to the Identity Resolver (spec §4.1/§4.8's
// "ingest collaborators"). The collaborators themselves — OCR, parsers,
// scrapers — are out of scope; this package is only the boundary they
// call across.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// CandidateBatch is the top-level JSON structure one ingest run submits.
type CandidateBatch struct {
	Source     string            `json:"source"` // book | story | course | frequency_list
	PageNumber *int              `json:"page_number,omitempty"`
	Candidates []CandidateImport `json:"candidates"`
	Sentences  []SentenceImport  `json:"sentences,omitempty"`
}

// CandidateImport is one surface word an ingest collaborator observed.
// RootRadicals, if present, is a space-separated sequence of Arabic
// letters proposing the word's consonantal root family.
type CandidateImport struct {
	Surface       string `json:"surface"`
	Gloss         string `json:"gloss,omitempty"`
	FrequencyRank *int   `json:"frequency_rank,omitempty"`
	RootRadicals  string `json:"root_radicals,omitempty"`
	RootGloss     string `json:"root_gloss,omitempty"`
}

// SentenceImport is one piece of source text an ingest collaborator
// extracted, tagged with the batch's source and an optional per-sentence
// page override.
type SentenceImport struct {
	Arabic     string `json:"arabic"`
	English    string `json:"english,omitempty"`
	PageNumber *int   `json:"page_number,omitempty"`
}

// LoadCandidateBatch reads and parses a candidate batch JSON file.
func LoadCandidateBatch(path string) (*CandidateBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batch CandidateBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing candidate batch: %w", err)
	}
	return &batch, nil
}
