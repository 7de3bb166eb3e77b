package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep   EventType = "step"
	EventGap    EventType = "gap"
	EventRename EventType = "rename"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent is emitted each time a walk moves past a filename.
type StepEvent struct {
	EventBase
	Expression string `json:"expression"`
	Filename   string `json:"filename"`
	Ordinal    int    `json:"ordinal"`
	Marked     bool   `json:"marked"`
}

// GapEvent is emitted when a walk stops.
type GapEvent struct {
	EventBase
	Expression string `json:"expression"`
	Gap        Gap    `json:"gap"`
}

// RenameEvent is emitted after a rename has been handed to the collaborator.
type RenameEvent struct {
	EventBase
	Kind   RenameKind `json:"kind"`
	Rename Rename     `json:"rename"`
	DryRun bool       `json:"dry_run,omitempty"`
}

// Hooks defines callbacks for engine observability. Nil fields are skipped.
type Hooks struct {
	OnStep   func(context.Context, *StepEvent)
	OnGap    func(context.Context, *GapEvent)
	OnRename func(context.Context, *RenameEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnStep: func(ctx context.Context, e *StepEvent) {
			if h.OnStep != nil {
				h.OnStep(ctx, e)
			}
			if other.OnStep != nil {
				other.OnStep(ctx, e)
			}
		},
		OnGap: func(ctx context.Context, e *GapEvent) {
			if h.OnGap != nil {
				h.OnGap(ctx, e)
			}
			if other.OnGap != nil {
				other.OnGap(ctx, e)
			}
		},
		OnRename: func(ctx context.Context, e *RenameEvent) {
			if h.OnRename != nil {
				h.OnRename(ctx, e)
			}
			if other.OnRename != nil {
				other.OnRename(ctx, e)
			}
		},
	}
}
