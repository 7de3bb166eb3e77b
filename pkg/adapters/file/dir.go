package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/ordinal/internal/logging"
	"github.com/aretw0/ordinal/pkg/domain"
)

// Dir exposes the regular files of one directory, in natural order, as a
// cursor that can mark and rename. Renames never leave the directory.
type Dir struct {
	path   string
	names  []string
	pos    int
	marked map[string]bool

	filter func(string) bool
	dryRun bool
	logger *slog.Logger

	// Renames records every rename performed (or simulated in dry-run mode).
	Renames []domain.Rename
}

// DirOption configures a Dir.
type DirOption func(*Dir)

// WithDryRun makes Rename update only the in-memory listing.
func WithDryRun(dryRun bool) DirOption {
	return func(d *Dir) {
		d.dryRun = dryRun
	}
}

// WithFilter keeps only names for which keep returns true.
func WithFilter(keep func(name string) bool) DirOption {
	return func(d *Dir) {
		d.filter = keep
	}
}

// WithDirLogger sets the logger used to report renames.
func WithDirLogger(logger *slog.Logger) DirOption {
	return func(d *Dir) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// OpenDir reads path and positions the cursor on the first file.
func OpenDir(path string, opts ...DirOption) (*Dir, error) {
	d := &Dir{
		path:   path,
		marked: make(map[string]bool),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads the directory and rewinds the cursor. Marks are kept for
// names that still exist.
func (d *Dir) Reload() error {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", d.path, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if d.filter != nil && !d.filter(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.SortFunc(names, NaturalCompare)

	d.names = names
	d.pos = 0
	for name := range d.marked {
		if !slices.Contains(names, name) {
			delete(d.marked, name)
		}
	}
	return nil
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// DryRun reports whether renames are simulated.
func (d *Dir) DryRun() bool {
	return d.dryRun
}

// List returns the filenames in natural order.
func (d *Dir) List(ctx context.Context) ([]string, error) {
	return slices.Clone(d.names), nil
}

// Current returns the filename under the cursor.
func (d *Dir) Current() (string, bool) {
	if d.pos >= len(d.names) {
		return "", false
	}
	return d.names[d.pos], true
}

// Advance moves the cursor forward.
func (d *Dir) Advance() bool {
	if d.pos < len(d.names) {
		d.pos++
	}
	return d.pos < len(d.names)
}

// Seek positions the cursor on name.
func (d *Dir) Seek(name string) error {
	i := slices.Index(d.names, name)
	if i < 0 {
		return fmt.Errorf("%w: %q in %s", domain.ErrNotFound, name, d.path)
	}
	d.pos = i
	return nil
}

// SeekFirst positions the cursor on the first name accepted by match.
func (d *Dir) SeekFirst(match func(string) bool) error {
	i := slices.IndexFunc(d.names, match)
	if i < 0 {
		return fmt.Errorf("%w: no matching file in %s", domain.ErrNotFound, d.path)
	}
	d.pos = i
	return nil
}

// Mark records the file under the cursor as selected.
func (d *Dir) Mark() error {
	name, ok := d.Current()
	if !ok {
		return fmt.Errorf("%w: cursor is past the end", domain.ErrNotFound)
	}
	d.marked[name] = true
	return nil
}

// Marked returns the selected names in natural order.
func (d *Dir) Marked() []string {
	out := make([]string, 0, len(d.marked))
	for _, name := range d.names {
		if d.marked[name] {
			out = append(out, name)
		}
	}
	return out
}

// Rename renames from to to inside the directory. Both must be plain
// filenames. It refuses to overwrite an existing file.
func (d *Dir) Rename(ctx context.Context, from, to string) error {
	if err := validName(from); err != nil {
		return err
	}
	if err := validName(to); err != nil {
		return err
	}

	i := slices.Index(d.names, from)
	if i < 0 {
		return fmt.Errorf("%w: %q in %s", domain.ErrNotFound, from, d.path)
	}
	if from == to {
		return nil
	}
	if slices.Contains(d.names, to) {
		return fmt.Errorf("%w: %q in %s", domain.ErrExists, to, d.path)
	}

	if !d.dryRun {
		dst := filepath.Join(d.path, to)
		// The listing may be stale or filtered.
		if _, err := os.Lstat(dst); err == nil {
			return fmt.Errorf("%w: %q in %s", domain.ErrExists, to, d.path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", dst, err)
		}
		if err := os.Rename(filepath.Join(d.path, from), dst); err != nil {
			return fmt.Errorf("failed to rename %q to %q: %w", from, to, err)
		}
	}

	d.names[i] = to
	if d.marked[from] {
		delete(d.marked, from)
		d.marked[to] = true
	}
	d.Renames = append(d.Renames, domain.Rename{From: from, To: to})
	d.logger.Debug("renamed", "dir", d.path, "from", from, "to", to, "dry_run", d.dryRun)
	return nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid filename %q: must be a plain name inside the directory", name)
	}
	return nil
}
