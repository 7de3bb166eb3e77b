package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/ordinal/pkg/domain"
)

// Matcher extracts ordinals from filenames belonging to a pattern.
type Matcher struct {
	prefix, suffix string
	width          int
}

// NewMatcher builds a full-string matcher for p. Prefix and suffix are
// compared byte for byte, so any filename, valid UTF-8 or not, is accepted.
func NewMatcher(p domain.Pattern) *Matcher {
	return &Matcher{prefix: p.Prefix, suffix: p.Suffix, width: p.Width}
}

// Match returns the ordinal encoded in filename, or false when filename is
// not part of the sequence. Ordinals that overflow int are treated as a
// non-match.
func (m *Matcher) Match(filename string) (int, bool) {
	if len(filename) < len(m.prefix)+len(m.suffix) ||
		!strings.HasPrefix(filename, m.prefix) || !strings.HasSuffix(filename, m.suffix) {
		return 0, false
	}
	digits := filename[len(m.prefix) : len(filename)-len(m.suffix)]
	if digits == "" || (m.width > 0 && len(digits) != m.width) {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Generator produces filenames from ordinals.
type Generator struct {
	p domain.Pattern
}

// NewGenerator builds a generator for p.
func NewGenerator(p domain.Pattern) *Generator {
	return &Generator{p: p}
}

// Generate returns the filename for ordinal. A negative ordinal, or one with
// more digits than a fixed width allows, is rejected rather than producing a
// name the matcher would not accept.
func (g *Generator) Generate(ordinal int) (string, error) {
	if ordinal < 0 {
		return "", &domain.OrdinalError{Ordinal: ordinal, Width: g.p.Width}
	}
	digits := strconv.Itoa(ordinal)
	if g.p.Padded() {
		if len(digits) > g.p.Width {
			return "", &domain.OrdinalError{Ordinal: ordinal, Width: g.p.Width}
		}
		digits = fmt.Sprintf("%0*d", g.p.Width, ordinal)
	}
	return g.p.Prefix + digits + g.p.Suffix, nil
}
