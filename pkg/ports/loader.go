package ports

import "context"

// Lister provides the ordered filenames a command operates on.
type Lister interface {
	// List returns filenames in display order.
	List(ctx context.Context) ([]string, error)
}

// Cursor walks an externally owned, ordered list of filenames.
type Cursor interface {
	// Current returns the filename under the cursor, or false once the
	// cursor has moved past the last item.
	Current() (string, bool)

	// Advance moves to the next item and reports whether one exists.
	Advance() bool
}

// Marker selects the item currently under the cursor.
type Marker interface {
	Mark() error
}

// MarkingCursor is a Cursor that can also mark items.
type MarkingCursor interface {
	Cursor
	Marker
}

// Renamer replaces a filename. Implementations decide whether that touches
// the file system, an editor buffer or nothing at all.
type Renamer interface {
	Rename(ctx context.Context, from, to string) error
}
