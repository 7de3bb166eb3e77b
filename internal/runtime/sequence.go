package runtime

import (
	"fmt"

	"github.com/aretw0/ordinal/internal/compiler"
	"github.com/aretw0/ordinal/pkg/domain"
)

// Sequence bundles a compiled pattern with its matcher and generator so a
// single command compiles the expression exactly once.
type Sequence struct {
	Pattern domain.Pattern

	matcher   *compiler.Matcher
	generator *compiler.Generator
}

// NewSequence prepares p for matching and generation.
func NewSequence(p domain.Pattern) *Sequence {
	return &Sequence{
		Pattern:   p,
		matcher:   compiler.NewMatcher(p),
		generator: compiler.NewGenerator(p),
	}
}

// Parse compiles expression and prepares it.
func Parse(expression string) (*Sequence, error) {
	p, err := compiler.Compile(expression)
	if err != nil {
		return nil, err
	}
	return NewSequence(p), nil
}

// MatchOrdinal returns the ordinal encoded in filename, or false when the
// filename is not part of the sequence.
func (s *Sequence) MatchOrdinal(filename string) (int, bool) {
	return s.matcher.Match(filename)
}

// Generate returns the filename for ordinal.
func (s *Sequence) Generate(ordinal int) (string, error) {
	return s.generator.Generate(ordinal)
}

// ExpectedAtOffset returns the filename offset positions away from filename.
func (s *Sequence) ExpectedAtOffset(filename string, offset int) (string, error) {
	n, ok := s.MatchOrdinal(filename)
	if !ok {
		return "", s.mismatch(filename, -1)
	}
	if offset > 0 && n > maxInt-offset {
		return "", fmt.Errorf("%w: %d%+d overflows", domain.ErrInvalidOrdinal, n, offset)
	}
	return s.Generate(n + offset)
}

// Matches reports whether filename belongs to the sequence.
func (s *Sequence) Matches(filename string) bool {
	_, ok := s.MatchOrdinal(filename)
	return ok
}

// Filter returns the names that belong to the sequence, preserving order.
func (s *Sequence) Filter(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s *Sequence) mismatch(filename string, index int) error {
	return &domain.MismatchError{Expression: s.Pattern.Expression, Filename: filename, Index: index}
}

const maxInt = int(^uint(0) >> 1)
