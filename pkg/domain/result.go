package domain

// GapReason explains why a walk over a filename list stopped.
type GapReason string

const (
	// ReasonEndOfList means the list ran out while the sequence was intact.
	ReasonEndOfList GapReason = "end_of_list"
	// ReasonMismatch means the next filename differs from the expected one.
	ReasonMismatch GapReason = "mismatch"
	// ReasonWidth means the successor ordinal no longer fits the field width.
	ReasonWidth GapReason = "width"
)

// Gap describes where a contiguous run of filenames stops.
type Gap struct {
	// Found is false when the walk reached the end of the list.
	Found  bool      `json:"found"`
	Reason GapReason `json:"reason"`

	// Steps counts how many times the walk moved the cursor forward.
	Steps int `json:"steps"`

	// Last is the final filename that belongs to the run.
	Last string `json:"last"`

	// Expected is the successor predicted after Last. Empty for width gaps.
	Expected string `json:"expected,omitempty"`

	// Actual is the filename found where Expected was predicted.
	Actual string `json:"actual,omitempty"`
}

// Run is the result of marking a contiguous run of filenames.
type Run struct {
	Names []string `json:"names"`
	Gap   Gap      `json:"gap"`
}

// Marked returns the number of filenames marked during the walk.
func (r Run) Marked() int {
	return len(r.Names)
}
