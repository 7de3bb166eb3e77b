package file

import (
	"cmp"
	"strings"
)

// NaturalCompare orders names the way a person would: runs of digits compare
// by numeric value, everything else compares case-insensitively. Ties fall
// back to plain byte order so the result is total.
func NaturalCompare(a, b string) int {
	if c := naturalCompare(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func naturalCompare(a, b string) int {
	ai, bi, la, lb := 0, 0, len(a), len(b)
	for ai < la && bi < lb {
		ca, cb := a[ai], b[bi]
		if isDigit(ca) && isDigit(cb) {
			sa, sb := ai, bi
			for ai < la && isDigit(a[ai]) {
				ai++
			}
			for bi < lb && isDigit(b[bi]) {
				bi++
			}
			na := strings.TrimLeft(a[sa:ai], "0")
			nb := strings.TrimLeft(b[sb:bi], "0")
			if len(na) != len(nb) {
				return cmp.Compare(len(na), len(nb))
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			// Same value: fewer leading zeros first.
			if c := cmp.Compare(ai-sa, bi-sb); c != 0 {
				return c
			}
			continue
		}

		if xa, xb := toLower(ca), toLower(cb); xa != xb {
			return cmp.Compare(xa, xb)
		}
		ai++
		bi++
	}
	return cmp.Compare(la-ai, lb-bi)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
