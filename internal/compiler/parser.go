// Package compiler turns sequence expressions into matchers and generators.
package compiler

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/aretw0/ordinal/pkg/domain"
)

// placeholder finds the numeric field. Only the first occurrence is special;
// anything after it, including further %…d text, is literal suffix.
var placeholder = regexp.MustCompile(`%([0-9]*)d`)

// MaxWidth is the widest numeric field a pattern may declare. It bounds the
// zero padding of a generated name.
const MaxWidth = 1000

// Compile parses a sequence expression into a Pattern.
func Compile(expression string) (domain.Pattern, error) {
	loc := placeholder.FindStringSubmatchIndex(expression)
	if loc == nil {
		return domain.Pattern{}, &domain.PatternError{Expression: expression}
	}

	p := domain.Pattern{
		Expression: expression,
		Prefix:     expression[:loc[0]],
		Suffix:     expression[loc[1]:],
	}

	if digits := expression[loc[2]:loc[3]]; digits != "" {
		w, err := strconv.Atoi(digits)
		if err != nil || w > MaxWidth {
			return domain.Pattern{}, fmt.Errorf("%w: width %s exceeds %d", &domain.PatternError{Expression: expression}, digits, MaxWidth)
		}
		p.Width = w
	}

	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for constants
// and tests.
func MustCompile(expression string) domain.Pattern {
	p, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return p
}
