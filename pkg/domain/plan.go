package domain

// RenameKind identifies the transformation that produced a Plan.
type RenameKind string

const (
	RenameSequential RenameKind = "sequential"
	RenameOffset     RenameKind = "offset"
	RenameCross      RenameKind = "cross"
)

// ParseRenameKind maps a user supplied name to a RenameKind.
func ParseRenameKind(s string) (RenameKind, bool) {
	switch RenameKind(s) {
	case RenameSequential, RenameOffset, RenameCross:
		return RenameKind(s), true
	case "seq":
		return RenameSequential, true
	}
	return "", false
}

// Rename is a single replacement of a filename.
type Rename struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Noop reports whether applying the rename would leave the name unchanged.
func (r Rename) Noop() bool {
	return r.From == r.To
}

// Plan is an ordered batch of renames, computed and validated as a whole
// before any of them is applied.
type Plan struct {
	Kind    RenameKind `json:"kind"`
	Renames []Rename   `json:"renames"`
}

// Len returns the number of items in the plan.
func (p Plan) Len() int {
	return len(p.Renames)
}

// Changes returns the number of renames that actually change a name.
func (p Plan) Changes() int {
	n := 0
	for _, r := range p.Renames {
		if !r.Noop() {
			n++
		}
	}
	return n
}
