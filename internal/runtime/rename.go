package runtime

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/ports"
)

// ErrRenameCycle is returned by Schedule when renames form a cycle, such as
// two files swapping names.
var ErrRenameCycle = errors.New("renames form a cycle")

// PlanSequential assigns start, start+step, start+2*step… to names in order,
// ignoring their current names entirely.
func PlanSequential(seq *Sequence, names []string, start, step int) (domain.Plan, error) {
	plan := domain.Plan{Kind: domain.RenameSequential, Renames: make([]domain.Rename, 0, len(names))}
	for i, name := range names {
		to, err := seq.Generate(start + i*step)
		if err != nil {
			return domain.Plan{}, fmt.Errorf("item %d: %w", i, err)
		}
		plan.Renames = append(plan.Renames, domain.Rename{From: name, To: to})
	}
	return plan, nil
}

// PlanOffset shifts the ordinal of every name by offset. Every name must
// belong to the sequence; the first that does not aborts the whole plan.
func PlanOffset(seq *Sequence, names []string, offset int) (domain.Plan, error) {
	plan := domain.Plan{Kind: domain.RenameOffset, Renames: make([]domain.Rename, 0, len(names))}
	for i, name := range names {
		if !seq.Matches(name) {
			return domain.Plan{}, seq.mismatch(name, i)
		}
		to, err := seq.ExpectedAtOffset(name, offset)
		if err != nil {
			return domain.Plan{}, fmt.Errorf("item %d: %w", i, err)
		}
		plan.Renames = append(plan.Renames, domain.Rename{From: name, To: to})
	}
	return plan, nil
}

// PlanCross reads each ordinal through from and writes it back through to,
// e.g. "Chapter %d" to "Chapter %02d" to add zero padding.
func PlanCross(from, to *Sequence, names []string) (domain.Plan, error) {
	plan := domain.Plan{Kind: domain.RenameCross, Renames: make([]domain.Rename, 0, len(names))}
	for i, name := range names {
		n, ok := from.MatchOrdinal(name)
		if !ok {
			return domain.Plan{}, from.mismatch(name, i)
		}
		out, err := to.Generate(n)
		if err != nil {
			return domain.Plan{}, fmt.Errorf("item %d: %w", i, err)
		}
		plan.Renames = append(plan.Renames, domain.Rename{From: name, To: out})
	}
	return plan, nil
}

// Apply hands every rename of plan to r in plan order; hosts that run
// Schedule first apply the scheduled order. It stops at the first
// failure; renames already applied stay applied and are counted in the
// returned total.
func (e *Engine) Apply(ctx context.Context, plan domain.Plan, r ports.Renamer) (int, error) {
	dry := false
	if d, ok := r.(interface{ DryRun() bool }); ok {
		dry = d.DryRun()
	}
	for i, rn := range plan.Renames {
		if err := r.Rename(ctx, rn.From, rn.To); err != nil {
			e.logger.Warn("rename failed", "kind", plan.Kind, "index", i, "from", rn.From, "to", rn.To, "error", err)
			return i, &domain.ApplyError{Index: i, Rename: rn, Err: err}
		}
		e.emitRename(ctx, plan.Kind, rn, dry)
	}
	e.logger.Debug("plan applied", "kind", plan.Kind, "count", plan.Len(), "dry_run", dry)
	return plan.Len(), nil
}

// Schedule reorders plan so that no rename targets a name another pending
// rename still has to move away from, e.g. a +1 offset runs from the highest
// ordinal down. No-op renames are dropped. Cycles cannot be ordered and
// return ErrRenameCycle.
func Schedule(plan domain.Plan) (domain.Plan, error) {
	pending := make([]domain.Rename, 0, len(plan.Renames))
	sources := make(map[string]int, len(plan.Renames))
	for _, rn := range plan.Renames {
		if rn.Noop() {
			continue
		}
		pending = append(pending, rn)
		sources[rn.From]++
	}

	out := domain.Plan{Kind: plan.Kind, Renames: make([]domain.Rename, 0, len(pending))}
	// Passes alternate direction so monotonic chains (any offset) settle in
	// at most two passes.
	for pass := 0; len(pending) > 0; pass++ {
		rest := make([]domain.Rename, 0, len(pending))
		for j := range pending {
			i := j
			if pass%2 == 1 {
				i = len(pending) - 1 - j
			}
			rn := pending[i]
			if sources[rn.To] > 0 {
				rest = append(rest, rn)
				continue
			}
			out.Renames = append(out.Renames, rn)
			sources[rn.From]--
		}
		if len(rest) == len(pending) {
			return domain.Plan{}, fmt.Errorf("%w: %q -> %q", ErrRenameCycle, rest[0].From, rest[0].To)
		}
		if pass%2 == 1 {
			slices.Reverse(rest)
		}
		pending = rest
	}
	return out, nil
}
