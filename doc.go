/*
Package ordinal manages filenames that encode a position in a numbered
sequence, such as scanned pages (0001.djvu, 0002.djvu, ...) or chapters.

A sequence expression is a fixed prefix, one printf-style numeric field and a
fixed suffix:

	%04d.djvu      0001.djvu, 0002.djvu, ...
	Chapter %d     Chapter 1, Chapter 2, ... Chapter 10
	p%03d.png      p001.png, p002.png, ...

A field with a width (%04d) matches exactly that many digits and generates
zero-padded names. A field without one (%d) matches any number of digits and
generates unpadded names.

# Usage

The Engine compiles an expression once per call and works against small
interfaces from pkg/ports, so the same code drives a directory on disk, an
editor buffer or an in-memory list in tests.

	eng := ordinal.New()

	next, _ := eng.Expected("%04d.djvu", "0005.djvu", 1) // "0006.djvu"

	dir, _ := file.OpenDir("./scans")
	gap, _ := eng.FindGap(ctx, "%04d.djvu", dir)
	if gap.Found {
		fmt.Printf("missing %s after %s\n", gap.Expected, gap.Last)
	}

Renames are planned first and applied second. Planning validates the whole
batch, so a filename outside the sequence aborts before anything is touched:

	plan, err := eng.PlanOffset("%04d.djvu", names, 1)
	if err != nil {
		return err
	}
	plan, err = ordinal.Schedule(plan) // avoid overwriting pending sources
	applied, err := eng.Apply(ctx, plan, dir)

# Errors

Failures wrap the sentinels in pkg/domain (ErrPattern, ErrSequenceMismatch,
ErrInvalidOrdinal, ErrWidthOverflow); use errors.Is and errors.As.
*/
package ordinal
