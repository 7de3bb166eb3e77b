package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/ordinal/pkg/domain"
)

// List implements ports.Lister, ports.MarkingCursor and ports.Renamer over an
// in-memory slice. It records every side effect so tests and headless hosts
// can inspect what a command did.
type List struct {
	names  []string
	pos    int
	marked []int

	// Advances counts calls to Advance, including the one that ran off the end.
	Advances int

	// Renames records every rename applied, in order.
	Renames []domain.Rename
}

// NewList creates a list positioned on its first item.
func NewList(names ...string) *List {
	return &List{names: slices.Clone(names)}
}

// List returns a copy of the current names.
func (l *List) List(ctx context.Context) ([]string, error) {
	return slices.Clone(l.names), nil
}

// Names returns a copy of the current names.
func (l *List) Names() []string {
	return slices.Clone(l.names)
}

// Current returns the name under the cursor.
func (l *List) Current() (string, bool) {
	if l.pos < 0 || l.pos >= len(l.names) {
		return "", false
	}
	return l.names[l.pos], true
}

// Advance moves the cursor forward.
func (l *List) Advance() bool {
	l.Advances++
	if l.pos < len(l.names) {
		l.pos++
	}
	return l.pos < len(l.names)
}

// Seek positions the cursor on name.
func (l *List) Seek(name string) error {
	i := slices.Index(l.names, name)
	if i < 0 {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	l.pos = i
	return nil
}

// Position returns the index under the cursor (len when past the end).
func (l *List) Position() int {
	return l.pos
}

// Mark records the item under the cursor as marked.
func (l *List) Mark() error {
	if _, ok := l.Current(); !ok {
		return fmt.Errorf("%w: cursor is past the end", domain.ErrNotFound)
	}
	if !slices.Contains(l.marked, l.pos) {
		l.marked = append(l.marked, l.pos)
	}
	return nil
}

// Marked returns the marked names in list order.
func (l *List) Marked() []string {
	idx := slices.Clone(l.marked)
	slices.Sort(idx)
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, l.names[i])
	}
	return out
}

// Rename replaces from with to in place. It refuses to overwrite a different
// name already in the list.
func (l *List) Rename(ctx context.Context, from, to string) error {
	i := slices.Index(l.names, from)
	if i < 0 {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, from)
	}
	if from != to && slices.Contains(l.names, to) {
		return fmt.Errorf("%w: %q", domain.ErrExists, to)
	}
	l.names[i] = to
	l.Renames = append(l.Renames, domain.Rename{From: from, To: to})
	return nil
}
