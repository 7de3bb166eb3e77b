package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/ports"
)

// DefaultsStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.DefaultsStore.
func DefaultsStoreContractTest(t *testing.T, store ports.DefaultsStore) {
	t.Helper()
	ctx := context.Background()
	key := "/scans/book-1"

	// 1. Load missing key
	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, key)
		if !errors.Is(err, domain.ErrDefaultsNotFound) {
			t.Fatalf("expected ErrDefaultsNotFound, got %v", err)
		}
	})

	// 2. Save and load back
	t.Run("Save_Load", func(t *testing.T) {
		in := &domain.Defaults{Expression: "%04d.djvu", UpdatedAt: time.Now().UTC().Truncate(time.Second)}
		if err := store.Save(ctx, key, in); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		out, err := store.Load(ctx, key)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if out.Expression != in.Expression {
			t.Errorf("expression mismatch. got %q, want %q", out.Expression, in.Expression)
		}
		if !out.UpdatedAt.Equal(in.UpdatedAt) {
			t.Errorf("timestamp mismatch. got %v, want %v", out.UpdatedAt, in.UpdatedAt)
		}
	})

	// 3. Overwrite
	t.Run("Overwrite", func(t *testing.T) {
		if err := store.Save(ctx, key, &domain.Defaults{Expression: "Chapter %02d"}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		out, err := store.Load(ctx, key)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if out.Expression != "Chapter %02d" {
			t.Errorf("expected overwritten expression, got %q", out.Expression)
		}
	})

	// 4. Returned values are copies
	t.Run("Isolation", func(t *testing.T) {
		out, err := store.Load(ctx, key)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		out.Expression = "mutated %d"
		again, err := store.Load(ctx, key)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if again.Expression == "mutated %d" {
			t.Error("store returned a shared pointer")
		}
	})

	// 5. Delete, twice
	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, key); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Fatalf("second delete should be a no-op, got %v", err)
		}
		_, err := store.Load(ctx, key)
		if !errors.Is(err, domain.ErrDefaultsNotFound) {
			t.Errorf("expected ErrDefaultsNotFound after delete, got %v", err)
		}
	})
}
