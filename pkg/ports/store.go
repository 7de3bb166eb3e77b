package ports

import (
	"context"

	"github.com/aretw0/ordinal/pkg/domain"
)

// DefaultsStore persists session defaults, such as the last sequence
// expression used in a directory. The stored values are advisory: losing
// them must never change the outcome of a command.
type DefaultsStore interface {
	// Save persists the defaults for a given key.
	Save(ctx context.Context, key string, defaults *domain.Defaults) error

	// Load retrieves the defaults for a given key.
	// Returns domain.ErrDefaultsNotFound if nothing was stored.
	Load(ctx context.Context, key string) (*domain.Defaults, error)

	// Delete removes the defaults for a given key.
	Delete(ctx context.Context, key string) error
}
