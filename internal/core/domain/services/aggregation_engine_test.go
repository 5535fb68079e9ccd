package services_test

import (
	"testing"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/part"
	"production/internal/core/domain/model/progress"
	"production/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func complete(t *testing.T, tr *progress.Tracker, f fixture, upTo int) {
	t.Helper()
	for i := 0; i < upTo; i++ {
		require.NoError(t, tr.AdvanceToInProgress(f.stages[i]))
		_, err := tr.Complete(f.stages[i], time.Now())
		require.NoError(t, err)
	}
}

func state(tr *progress.Tracker, q int64) services.PalletState {
	return services.PalletState{Quantity: kernel.MustQuantity(q), Progress: tr}
}

func TestAggregationEngine_StageAggregateFollowsPallets(t *testing.T) {
	f := newFixture(t, 2)
	engine := services.NewAggregationEngine()
	stage1 := f.stages[0]
	now := time.Now()

	a := f.tracker(t)
	complete(t, a, f, 1)
	b := f.tracker(t)
	require.NoError(t, b.AdvanceToInProgress(stage1))

	agg, err := engine.Recompute(f.part, f.route, []services.PalletState{state(a, 10), state(b, 10)}, nil, now)
	require.NoError(t, err)
	require.Len(t, agg.Stages, 3)
	require.Len(t, agg.Added, 3)
	assert.Equal(t, progress.InProgress, agg.Stages[0].Status())
	assert.Equal(t, progress.NotProcessed, agg.Stages[1].Status())
	assert.True(t, agg.PartStatusChanged)
	assert.Equal(t, part.InProgress, f.part.Status())

	_, err = b.Complete(stage1, now)
	require.NoError(t, err)
	agg, err = engine.Recompute(f.part, f.route, []services.PalletState{state(a, 10), state(b, 10)}, agg.Stages, now)
	require.NoError(t, err)
	assert.Equal(t, progress.Completed, agg.Stages[0].Status())
	assert.Len(t, agg.Changed, 1)
	assert.Empty(t, agg.Added)
	assert.False(t, agg.PartStatusChanged)

	c := f.tracker(t)
	_, err = c.EnsureProgress(stage1)
	require.NoError(t, err)
	agg, err = engine.Recompute(f.part, f.route,
		[]services.PalletState{state(a, 10), state(b, 10), state(c, 5)}, agg.Stages, now)
	require.NoError(t, err)
	assert.Equal(t, progress.InProgress, agg.Stages[0].Status())
	assert.Nil(t, agg.Stages[0].CompletedAt())
}

func TestAggregationEngine_PendingAggregate(t *testing.T) {
	f := newFixture(t, 1)
	tr := f.tracker(t)
	require.NoError(t, tr.MarkPending(f.stages[0]))

	agg, err := services.NewAggregationEngine().Recompute(f.part, f.route,
		[]services.PalletState{state(tr, 1)}, nil, time.Now())

	require.NoError(t, err)
	assert.Equal(t, progress.Pending, agg.Stages[0].Status())
	assert.Equal(t, part.InProgress, f.part.Status())
}

func TestAggregationEngine_RoutingAndPartCompletion(t *testing.T) {
	f := newFixture(t, 2)
	engine := services.NewAggregationEngine()
	a := f.tracker(t)
	b := f.tracker(t)
	complete(t, a, f, 2)
	complete(t, b, f, 1)
	pallets := []services.PalletState{state(a, 30), state(b, 10)}

	agg, err := engine.Recompute(f.part, f.route, pallets, nil, time.Now())
	require.NoError(t, err)
	assert.False(t, agg.RoutingCompleted)
	// a: 2 of 3 stages x 30, b: 1 of 3 x 10 => 70 / 120
	assert.Equal(t, "58.33", agg.CompletionPercent.String())

	require.NoError(t, b.AdvanceToInProgress(f.stages[1]))
	_, err = b.Complete(f.stages[1], time.Now())
	require.NoError(t, err)

	agg, err = engine.Recompute(f.part, f.route, pallets, agg.Stages, time.Now())
	require.NoError(t, err)
	assert.True(t, agg.RoutingCompleted)
	assert.True(t, agg.RoutingJustCompleted)
	assert.Equal(t, part.InProgress, f.part.Status(), "packaging stage still open")

	for _, tr := range []*progress.Tracker{a, b} {
		require.NoError(t, tr.AdvanceToInProgress(f.stages[2]))
		_, err = tr.Complete(f.stages[2], time.Now())
		require.NoError(t, err)
	}
	agg, err = engine.Recompute(f.part, f.route, pallets, agg.Stages, time.Now())
	require.NoError(t, err)
	assert.True(t, agg.PartStatusChanged)
	assert.False(t, agg.RoutingJustCompleted)
	assert.Equal(t, part.Completed, f.part.Status())
	assert.Equal(t, "100", agg.CompletionPercent.String())

	fresh := f.tracker(t)
	agg, err = engine.Recompute(f.part, f.route, append(pallets, state(fresh, 1)), agg.Stages, time.Now())
	require.NoError(t, err)
	assert.Equal(t, part.Completed, f.part.Status(), "part status never regresses")
	assert.Equal(t, progress.InProgress, agg.Stages[0].Status())
}

func TestAggregationEngine_NoPallets(t *testing.T) {
	f := newFixture(t, 1)

	agg, err := services.NewAggregationEngine().Recompute(f.part, f.route, nil, nil, time.Now())

	require.NoError(t, err)
	assert.False(t, agg.Dirty())
	assert.False(t, agg.RoutingCompleted)
	assert.Equal(t, part.Pending, f.part.Status())
	assert.True(t, agg.CompletionPercent.IsZero())
}

func TestAggregationEngine_RejectsForeignRoute(t *testing.T) {
	f := newFixture(t, 1)
	other := newFixture(t, 1)

	_, err := services.NewAggregationEngine().Recompute(f.part, other.route, nil, nil, time.Now())

	assert.Error(t, err)
}
