// Package apperr defines the typed, user-facing error taxonomy from spec
// §7: validation, conflict, and unavailable errors each carry a stable
// code and a safe message, never exposing internal details. Mirrors the
// teacher's contract.*Error convention (one typed error struct per
// use case, wrapped with fmt.Errorf/%w elsewhere, compared with
// errors.As/errors.Is at call sites).
package apperr

import "fmt"

// Code is a stable, machine-checkable error identifier.
type Code string

const (
	// Validation: input garbage per spec §7 (invalid root, single-char
	// abbreviation, multi-word lemma, etc).
	CodeInvalidSurface   Code = "invalid_surface"
	CodeInvalidRoot      Code = "invalid_root"
	CodeInvalidSessionSize Code = "invalid_session_size"

	// Conflict: idempotency replay, schedule invariant violation.
	CodeDuplicateReview Code = "duplicate_review"
	CodeNoSnapshot      Code = "no_undo_snapshot"

	// Unavailable: resource exhaustion, treated as normal per spec §7 but
	// still surfaced with a code so callers can distinguish "no due
	// obligations" from a real failure.
	CodeNoCandidates    Code = "no_candidates"
	CodePoolExhausted   Code = "pool_exhausted"
	CodeOracleUnavailable Code = "oracle_unavailable"
)

// ValidationError indicates malformed or out-of-range caller input.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Code, e.Message)
}

// ConflictError indicates a request that cannot be applied given the
// current state (idempotency replay, a schedule invariant guard).
type ConflictError struct {
	Code    Code
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict [%s]: %s", e.Code, e.Message)
}

// UnavailableError indicates a resource limit or external dependency
// outage prevented completing the request in full; per spec §7 this is
// "treated as normal, not an error" at the caller level (e.g. a shorter
// session), but the typed error lets the caller distinguish the reason.
type UnavailableError struct {
	Code    Code
	Message string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("unavailable [%s]: %s", e.Code, e.Message)
}
