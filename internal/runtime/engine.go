package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/ordinal/internal/logging"
	"github.com/aretw0/ordinal/pkg/domain"
)

// Engine runs traversals and applies rename plans. It holds no state between
// calls; every operation works on the sequence and collaborators passed in.
type Engine struct {
	hooks  domain.Hooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) emitStep(ctx context.Context, seq *Sequence, filename string, marked bool) {
	if e.hooks.OnStep == nil {
		return
	}
	n, _ := seq.MatchOrdinal(filename)
	e.hooks.OnStep(ctx, &domain.StepEvent{
		EventBase:  domain.EventBase{Timestamp: e.now(), Type: domain.EventStep},
		Expression: seq.Pattern.Expression,
		Filename:   filename,
		Ordinal:    n,
		Marked:     marked,
	})
}

func (e *Engine) emitGap(ctx context.Context, seq *Sequence, gap domain.Gap) {
	if e.hooks.OnGap == nil {
		return
	}
	e.hooks.OnGap(ctx, &domain.GapEvent{
		EventBase:  domain.EventBase{Timestamp: e.now(), Type: domain.EventGap},
		Expression: seq.Pattern.Expression,
		Gap:        gap,
	})
}

func (e *Engine) emitRename(ctx context.Context, kind domain.RenameKind, r domain.Rename, dryRun bool) {
	if e.hooks.OnRename == nil {
		return
	}
	e.hooks.OnRename(ctx, &domain.RenameEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventRename},
		Kind:      kind,
		Rename:    r,
		DryRun:    dryRun,
	})
}
