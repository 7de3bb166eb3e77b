package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the engine. Typed errors below wrap them so
// callers can match with errors.Is and inspect details with errors.As.
var (
	// ErrPattern is returned when a sequence expression has no numeric placeholder.
	ErrPattern = errors.New("no numeric placeholder in sequence expression")

	// ErrSequenceMismatch is returned when a filename does not belong to a sequence.
	ErrSequenceMismatch = errors.New("filename does not match sequence")

	// ErrInvalidOrdinal is returned when an ordinal is negative or cannot be
	// represented under the pattern's width.
	ErrInvalidOrdinal = errors.New("invalid ordinal")

	// ErrWidthOverflow is returned when an ordinal has more digits than the
	// field width. It matches ErrInvalidOrdinal as well.
	ErrWidthOverflow = fmt.Errorf("%w: exceeds field width", ErrInvalidOrdinal)

	// ErrNotFound is returned by collaborators when a filename is not in their list.
	ErrNotFound = errors.New("filename not found")

	// ErrExists is returned by collaborators refusing to overwrite an existing filename.
	ErrExists = errors.New("target filename already exists")

	// ErrDefaultsNotFound is returned when no session defaults were stored for a key.
	ErrDefaultsNotFound = errors.New("session defaults not found")
)

// PatternError reports a sequence expression that cannot be compiled.
type PatternError struct {
	Expression string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("expression %q: %v (want %%d or %%<width>d)", e.Expression, ErrPattern)
}

func (e *PatternError) Unwrap() error {
	return ErrPattern
}

// MismatchError reports a filename that does not match a pattern.
type MismatchError struct {
	Expression string
	Filename   string
	Index      int // position in the input batch, -1 when not applicable
}

func (e *MismatchError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("item %d: %q does not match %q", e.Index, e.Filename, e.Expression)
	}
	return fmt.Sprintf("%q does not match %q", e.Filename, e.Expression)
}

func (e *MismatchError) Unwrap() error {
	return ErrSequenceMismatch
}

// OrdinalError reports an ordinal that cannot be turned into a filename.
type OrdinalError struct {
	Ordinal int
	Width   int
}

func (e *OrdinalError) Error() string {
	if e.Ordinal < 0 {
		return fmt.Sprintf("%v: %d is negative", ErrInvalidOrdinal, e.Ordinal)
	}
	return fmt.Sprintf("%v: %d has more than %d digits", ErrInvalidOrdinal, e.Ordinal, e.Width)
}

func (e *OrdinalError) Unwrap() error {
	if e.Ordinal >= 0 && e.Width > 0 {
		return ErrWidthOverflow
	}
	return ErrInvalidOrdinal
}

// ApplyError reports a collaborator failure while applying a plan. Applied
// renames before Index are not rolled back.
type ApplyError struct {
	Index  int
	Rename Rename
	Err    error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("rename %d (%q -> %q) failed after %d applied: %v", e.Index, e.Rename.From, e.Rename.To, e.Index, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
