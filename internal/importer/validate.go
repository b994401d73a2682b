package importer

import (
	"fmt"
	"strings"
)

var validBatchSources = map[string]bool{
	"book": true, "story": true, "course": true, "frequency_list": true,
}

// ValidateCandidateBatch checks structural validity before ingest:
// unrecognized source tags, missing surfaces, and multi-word "lemmas" are
// rejected here so Ingest never has to special-case them (spec §3's
// garbage-input list includes "multi-word lemma"). Per-candidate
// script/length garbage (single-character abbreviations, Latin-only
// strings, invalid roots) is checked during Ingest itself, where the
// warning can name which candidate was dropped without failing the whole
// batch.
func ValidateCandidateBatch(batch *CandidateBatch) []error {
	var errs []error

	if !validBatchSources[batch.Source] {
		errs = append(errs, fmt.Errorf("source %q is not one of book, story, course, frequency_list", batch.Source))
	}
	if len(batch.Candidates) == 0 && len(batch.Sentences) == 0 {
		errs = append(errs, fmt.Errorf("batch has no candidates or sentences"))
	}

	for i, c := range batch.Candidates {
		prefix := fmt.Sprintf("candidates[%d]", i)
		if strings.TrimSpace(c.Surface) == "" {
			errs = append(errs, fmt.Errorf("%s.surface is required", prefix))
			continue
		}
		if len(strings.Fields(c.Surface)) > 1 {
			errs = append(errs, fmt.Errorf("%s.surface %q is multi-word, not a lemma", prefix, c.Surface))
		}
	}

	for i, s := range batch.Sentences {
		if strings.TrimSpace(s.Arabic) == "" {
			errs = append(errs, fmt.Errorf("sentences[%d].arabic is required", i))
		}
	}

	return errs
}
