// Package fsrs implements the FSRS-6 forgetting-curve scheduler for
// graduated words, wrapping the generic review/undo/leech-detection
// contract the way other_examples' go-srs-derived Algorithm interface
// shapes a spaced-repetition algorithm (ProcessReview, IsDue,
// GetNextInterval), adapted to stability/difficulty cards instead of
// SM-2's easiness factor.
package fsrs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/domain"
)

// Card is the FSRS-6 memory state for one graduated KnowledgeRecord. It is
// serialized to the record's opaque FSRSCard blob between reviews.
type Card struct {
	Stability    float64   `json:"stability"`
	Difficulty   float64   `json:"difficulty"`
	Reps         int       `json:"reps"`
	Lapses       int       `json:"lapses"`
	LastReviewAt time.Time `json:"last_review_at"`
}

// Encode serializes the card for storage in KnowledgeRecord.FSRSCard.
func (c Card) Encode() ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding fsrs card: %w", err)
	}
	return b, nil
}

// Seed builds the initial FSRS card for a word graduating out of
// acquisition, seeded with a Good-rating initial review at now (spec §4.3
// "graduation seeds an FSRS card with a Good-rating initial review").
func Seed(weights [21]float64, now time.Time) *Card {
	return &Card{
		Stability:    initialStability(weights, domain.RatingGood),
		Difficulty:   initialDifficulty(weights, domain.RatingGood),
		Reps:         1,
		LastReviewAt: now,
	}
}

// DecodeCard parses a KnowledgeRecord.FSRSCard blob.
func DecodeCard(blob []byte) (*Card, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("decoding fsrs card: empty blob")
	}
	var c Card
	if err := json.Unmarshal(blob, &c); err != nil {
		return nil, fmt.Errorf("decoding fsrs card: %w", err)
	}
	return &c, nil
}
