package store

import "errors"

// Validation errors: malformed payloads rejected at the boundary before any
// row is written. Fully recoverable by the caller.
var (
	// ErrInvalidProvenance is returned when a provenance payload is not a
	// JSON object.
	ErrInvalidProvenance = errors.New("provenance must be a JSON object")

	// ErrInvalidSpan is returned when byte/line/column ordering invariants
	// are violated.
	ErrInvalidSpan = errors.New("invalid source span")

	// ErrEmptyComment is returned when a comment overlay is set to the
	// empty string.
	ErrEmptyComment = errors.New("comment must not be empty")

	// ErrScoreOutOfRange is returned when a score overlay is outside [0, 1].
	ErrScoreOutOfRange = errors.New("score must be in [0, 1]")

	// ErrInvalidStatus is returned for status values other than accept and
	// reject.
	ErrInvalidStatus = errors.New("unrecognized status")
)

// Referential errors: an operation references a row that does not exist.
// These indicate a pipeline ordering bug and are surfaced to the caller,
// never silently dropped.
var (
	// ErrMissingSpan is returned when a match is inserted before the source
	// span for its byte range.
	ErrMissingSpan = errors.New("no source span recorded for byte range")

	// ErrMissingBlob is returned when an operation references an unknown blob.
	ErrMissingBlob = errors.New("blob not found")

	// ErrMissingFinding is returned when an overlay references an unknown
	// finding.
	ErrMissingFinding = errors.New("finding not found")

	// ErrMissingMatch is returned when an overlay references an unknown match.
	ErrMissingMatch = errors.New("match not found")
)

// ErrRuleIdentityConflict is returned when a rule structural ID is re-bound
// to a different syntax. This indicates a logic bug or a hash collision and
// must never silently overwrite the stored rule.
var ErrRuleIdentityConflict = errors.New("rule structural ID already bound to a different syntax")
