package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/ordinal/pkg/domain"
)

// LogHooks returns hooks that write one structured line per event. Steps
// are logged at debug level since a walk emits one per file.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"expression", e.Expression,
				"filename", e.Filename,
				"ordinal", e.Ordinal,
				"marked", e.Marked,
			)
		},
		OnGap: func(ctx context.Context, e *domain.GapEvent) {
			logger.InfoContext(ctx, "walk_end",
				"expression", e.Expression,
				"found", e.Gap.Found,
				"reason", e.Gap.Reason,
				"steps", e.Gap.Steps,
				"last", e.Gap.Last,
				"expected", e.Gap.Expected,
				"actual", e.Gap.Actual,
			)
		},
		OnRename: func(ctx context.Context, e *domain.RenameEvent) {
			logger.InfoContext(ctx, "rename",
				"kind", e.Kind,
				"from", e.Rename.From,
				"to", e.Rename.To,
				"dry_run", e.DryRun,
			)
		},
	}
}
