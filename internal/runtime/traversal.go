package runtime

import (
	"context"
	"errors"

	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/ports"
)

// stepFunc performs the side effect for the item under the cursor and moves
// past it. It reports whether another item exists.
type stepFunc func() (bool, error)

// FindGap advances c through the sequence until the next filename is not the
// predicted successor. The cursor is left on the first item after the gap,
// or past the end of the list when no gap was found.
func (e *Engine) FindGap(ctx context.Context, seq *Sequence, c ports.Cursor) (domain.Gap, error) {
	gap, err := e.walk(ctx, seq, c, false, func() (bool, error) {
		return c.Advance(), nil
	})
	if err != nil {
		return gap, err
	}
	e.logger.Debug("gap search finished", "expression", seq.Pattern.Expression, "found", gap.Found, "steps", gap.Steps, "last", gap.Last)
	return gap, nil
}

// MarkRun marks every filename of the contiguous run starting at the cursor.
func (e *Engine) MarkRun(ctx context.Context, seq *Sequence, c ports.MarkingCursor) (domain.Run, error) {
	var run domain.Run
	var current string

	gap, err := e.walk(ctx, seq, c, true, func() (bool, error) {
		current, _ = c.Current()
		if err := c.Mark(); err != nil {
			return false, err
		}
		run.Names = append(run.Names, current)
		return c.Advance(), nil
	})
	run.Gap = gap
	if err != nil {
		return run, err
	}
	e.logger.Debug("run marked", "expression", seq.Pattern.Expression, "marked", run.Marked(), "gap", gap.Found)
	return run, nil
}

// walk is the traversal shared by FindGap and MarkRun. Each iteration derives
// the current filename and its successor afresh, so a step that mutates the
// underlying list cannot leave stale state behind.
func (e *Engine) walk(ctx context.Context, seq *Sequence, c ports.Cursor, marking bool, step stepFunc) (domain.Gap, error) {
	current, ok := c.Current()
	if !ok || !seq.Matches(current) {
		return domain.Gap{}, seq.mismatch(current, -1)
	}

	var gap domain.Gap
	for {
		gap.Last = current

		expected, err := seq.ExpectedAtOffset(current, 1)
		exhausted := errors.Is(err, domain.ErrInvalidOrdinal)
		if err != nil && !exhausted {
			return gap, err
		}

		more, err := step()
		if err != nil {
			return gap, err
		}
		e.emitStep(ctx, seq, current, marking)

		if !more {
			gap.Reason = domain.ReasonEndOfList
			break
		}
		gap.Steps++

		next, ok := c.Current()
		if exhausted {
			gap.Found = true
			gap.Reason = domain.ReasonWidth
			gap.Actual = next
			break
		}
		if !ok || next != expected {
			gap.Found = true
			gap.Reason = domain.ReasonMismatch
			gap.Expected = expected
			gap.Actual = next
			break
		}
		current = next
	}

	e.emitGap(ctx, seq, gap)
	return gap, nil
}
