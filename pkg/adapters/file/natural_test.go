package file_test

import (
	"slices"
	"testing"

	"github.com/aretw0/ordinal/pkg/adapters/file"
	"github.com/stretchr/testify/assert"
)

func TestNaturalCompare(t *testing.T) {
	names := []string{"page10.png", "Page2.png", "page1.png", "page01.png", "cover.png", "page2a.png"}
	slices.SortFunc(names, file.NaturalCompare)

	assert.Equal(t, []string{"cover.png", "page1.png", "page01.png", "Page2.png", "page2a.png", "page10.png"}, names)
}

func TestNaturalCompare_Total(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a", "a", 0},
		{"a", "A", 1},
		{"9", "10", -1},
		{"x", "x1", -1},
		{"0007.djvu", "0008.djvu", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, file.NaturalCompare(tt.a, tt.b))
			assert.Equal(t, -tt.want, file.NaturalCompare(tt.b, tt.a))
		})
	}
}
