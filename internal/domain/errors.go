package domain

import "errors"

// Sentinel errors for domain-level invariant violations. Callers at the
// edges (importer, ingest collaborators) turn these into rejections with a
// specific warning per spec ERROR HANDLING DESIGN; they never reach the
// store.
var (
	ErrInvalidRootLength   = errors.New("root must have 3 or 4 radicals")
	ErrInvalidRootScript   = errors.New("root radicals must be Arabic script (U+0621-U+064A)")
	ErrSurfaceTooShort     = errors.New("surface form shorter than 2 characters after trimming")
	ErrLemmaCyclicVariant  = errors.New("lemma canonical reference would be cyclic")
	ErrLemmaVariantOfVariant = errors.New("a variant lemma cannot itself have a canonical reference depth > 1")
)
