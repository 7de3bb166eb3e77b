package ordinal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/ordinal/internal/logging"
	"github.com/aretw0/ordinal/internal/runtime"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/ports"
)

// Sequence is a compiled sequence expression.
type Sequence = runtime.Sequence

// ErrRenameCycle is returned by Schedule when renames form a cycle.
var ErrRenameCycle = runtime.ErrRenameCycle

// Engine is the high-level entry point for the library. It wraps the
// internal runtime and accepts expressions as strings.
type Engine struct {
	runtime *runtime.Engine
	hooks   domain.Hooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("component", "ordinal")

	eng.runtime = runtime.NewEngine(
		runtime.WithHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)
	return eng
}

// Compile parses expression. Reuse the result when calling the runtime
// repeatedly with the same expression.
func Compile(expression string) (*Sequence, error) {
	return runtime.Parse(expression)
}

// Match returns the ordinal encoded in filename. ok is false when filename
// is not part of the sequence; err is set only for an invalid expression.
func (e *Engine) Match(expression, filename string) (ordinal int, ok bool, err error) {
	seq, err := Compile(expression)
	if err != nil {
		return 0, false, err
	}
	ordinal, ok = seq.MatchOrdinal(filename)
	return ordinal, ok, nil
}

// Generate returns the filename for ordinal.
func (e *Engine) Generate(expression string, ordinal int) (string, error) {
	seq, err := Compile(expression)
	if err != nil {
		return "", err
	}
	return seq.Generate(ordinal)
}

// Expected returns the filename offset positions away from filename.
func (e *Engine) Expected(expression, filename string, offset int) (string, error) {
	seq, err := Compile(expression)
	if err != nil {
		return "", err
	}
	return seq.ExpectedAtOffset(filename, offset)
}

// FindGap walks c from its current item to the first break in the sequence.
func (e *Engine) FindGap(ctx context.Context, expression string, c ports.Cursor) (domain.Gap, error) {
	seq, err := Compile(expression)
	if err != nil {
		return domain.Gap{}, err
	}
	return e.runtime.FindGap(ctx, seq, c)
}

// MarkRun marks every item of the contiguous run starting at c.
func (e *Engine) MarkRun(ctx context.Context, expression string, c ports.MarkingCursor) (domain.Run, error) {
	seq, err := Compile(expression)
	if err != nil {
		return domain.Run{}, err
	}
	return e.runtime.MarkRun(ctx, seq, c)
}

// PlanSequential numbers names start, start+step, ... in order.
func (e *Engine) PlanSequential(expression string, names []string, start, step int) (domain.Plan, error) {
	seq, err := Compile(expression)
	if err != nil {
		return domain.Plan{}, err
	}
	return runtime.PlanSequential(seq, names, start, step)
}

// PlanOffset shifts the ordinal of every name by offset.
func (e *Engine) PlanOffset(expression string, names []string, offset int) (domain.Plan, error) {
	seq, err := Compile(expression)
	if err != nil {
		return domain.Plan{}, err
	}
	return runtime.PlanOffset(seq, names, offset)
}

// PlanCross moves names from one expression to another, keeping ordinals.
func (e *Engine) PlanCross(from, to string, names []string) (domain.Plan, error) {
	src, err := Compile(from)
	if err != nil {
		return domain.Plan{}, err
	}
	dst, err := Compile(to)
	if err != nil {
		return domain.Plan{}, err
	}
	return runtime.PlanCross(src, dst, names)
}

// Apply hands every rename of plan to r in plan order, and returns how many
// succeeded. Run Schedule first to get an order that never renames onto a
// pending source.
func (e *Engine) Apply(ctx context.Context, plan domain.Plan, r ports.Renamer) (int, error) {
	return e.runtime.Apply(ctx, plan, r)
}

// Schedule reorders plan so renames never overwrite a pending source.
func Schedule(plan domain.Plan) (domain.Plan, error) {
	return runtime.Schedule(plan)
}

// Seeker is a cursor over a listing that can jump to a filename.
type Seeker interface {
	ports.Lister
	ports.Cursor
	Seek(name string) error
}

// Position moves c to from, or to the first filename belonging to the
// sequence when from is empty.
func (e *Engine) Position(ctx context.Context, expression string, c Seeker, from string) error {
	if from != "" {
		return c.Seek(from)
	}
	seq, err := Compile(expression)
	if err != nil {
		return err
	}
	names, err := c.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if seq.Matches(name) {
			return c.Seek(name)
		}
	}
	return &domain.MismatchError{Expression: expression, Index: -1}
}

// Filter returns the names that belong to the sequence, in order.
func (e *Engine) Filter(expression string, names []string) ([]string, error) {
	seq, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return seq.Filter(names), nil
}

// RenameRequest describes a rename independent of the host that issued it.
type RenameRequest struct {
	Kind domain.RenameKind
	// Expression is the target pattern, or the source pattern of a cross
	// rename.
	Expression string
	// To is the target pattern of a cross rename.
	To string

	Names  []string
	Start  int
	Step   int
	Offset int
}

// Plan dispatches req to the matching planner.
func (e *Engine) Plan(req RenameRequest) (domain.Plan, error) {
	switch req.Kind {
	case domain.RenameSequential:
		return e.PlanSequential(req.Expression, req.Names, req.Start, req.Step)
	case domain.RenameOffset:
		return e.PlanOffset(req.Expression, req.Names, req.Offset)
	case domain.RenameCross:
		return e.PlanCross(req.Expression, req.To, req.Names)
	}
	return domain.Plan{}, fmt.Errorf("unknown rename kind %q", req.Kind)
}
