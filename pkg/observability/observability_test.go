package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	hooks := m.Hooks()
	hooks.OnStep(ctx, &domain.StepEvent{Filename: "0001.djvu"})
	hooks.OnStep(ctx, &domain.StepEvent{Filename: "0002.djvu"})
	hooks.OnGap(ctx, &domain.GapEvent{Gap: domain.Gap{Found: true, Reason: domain.ReasonMismatch}})
	hooks.OnRename(ctx, &domain.RenameEvent{Kind: domain.RenameOffset})
	hooks.OnRename(ctx, &domain.RenameEvent{Kind: domain.RenameOffset, DryRun: true})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Gaps.WithLabelValues("mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renames.WithLabelValues("offset", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renames.WithLabelValues("offset", "true")))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	hooks := observability.LogHooks(logger)
	ctx := context.Background()
	hooks.OnStep(ctx, &domain.StepEvent{Filename: "0001.djvu"})
	hooks.OnRename(ctx, &domain.RenameEvent{Kind: domain.RenameCross, Rename: domain.Rename{From: "Chapter 1", To: "Chapter 01"}})

	out := buf.String()
	assert.NotContains(t, out, "0001.djvu", "steps log at debug")
	assert.Contains(t, out, "msg=rename")
	assert.Contains(t, out, `to="Chapter 01"`)
}

func TestHooks_Merge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	var logged bytes.Buffer
	hooks := m.Hooks().Merge(observability.LogHooks(slog.New(slog.NewTextHandler(&logged, nil))))
	hooks.OnGap(context.Background(), &domain.GapEvent{Gap: domain.Gap{Reason: domain.ReasonEndOfList}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Gaps.WithLabelValues("end_of_list")))
	assert.Contains(t, logged.String(), "walk_end")
}
