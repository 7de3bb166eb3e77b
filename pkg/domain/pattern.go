package domain

import "strconv"

// Pattern is a compiled sequence expression: a literal prefix, a single
// decimal field and a literal suffix.
type Pattern struct {
	// Expression is the source text the pattern was compiled from.
	Expression string `json:"expression"`
	Prefix     string `json:"prefix"`
	Suffix     string `json:"suffix"`

	// Width is the exact number of digits of the field. Zero means one or
	// more digits on match and no padding on generation.
	Width int `json:"width,omitempty"`
}

// Padded reports whether the field has a fixed width.
func (p Pattern) Padded() bool {
	return p.Width > 0
}

// Capacity returns the largest ordinal that fits the field, or -1 when the
// field is unbounded.
func (p Pattern) Capacity() int {
	if !p.Padded() {
		return -1
	}
	if p.Width >= len(strconv.Itoa(maxInt)) {
		return maxInt
	}
	c := 1
	for i := 0; i < p.Width; i++ {
		c *= 10
	}
	return c - 1
}

func (p Pattern) String() string {
	return p.Expression
}

const maxInt = int(^uint(0) >> 1)
