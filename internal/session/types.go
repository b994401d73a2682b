// Package session implements the top-level orchestrator of spec §4.6: one
// call that combines due acquisition reviews, due FSRS reviews, auto-
// introductions, and a set-cover selection over the sentence material pool
// into an ordered, bounded session. The Session Builder produces only
// transient objects — nothing here is durable state, mirroring the
// teacher's contract.WhatNowResponse being a one-shot computed response
// rather than a persisted entity.
package session

import (
	"time"

	"github.com/houshuang/alif/internal/domain"
)

// Item is one entry in a built session: a sentence plus the lemma ids it
// is carrying review obligations for.
type Item struct {
	Sentence       *domain.Sentence
	TargetLemmaIDs []string
	// Acquiring marks that at least one of this item's target lemmas is
	// still in the Leitner acquisition phase, the signal the ordering
	// pass (order.go) uses to place it away from the easy bookends.
	Acquiring bool
}

// Session is the Session Builder's pure output: an ordered list of items
// bounded by the requested size.
type Session struct {
	ID         string
	GeneratedAt time.Time
	Items      []Item
	// UnmetDue lists due lemma ids that could not be covered by any
	// active or just-in-time-generated sentence this build (spec §4.6
	// step 9: "never pad with already-reviewed cards", a shorter session
	// is returned instead).
	UnmetDue []string
}

// Size returns the number of items in the session.
func (s Session) Size() int {
	return len(s.Items)
}
