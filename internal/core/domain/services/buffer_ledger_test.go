package services_test

import (
	"testing"
	"time"

	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/services"
	"production/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCell(t *testing.T, name string, capacity int) *buffer.Cell {
	t.Helper()
	c, err := buffer.NewCell(kernel.NewUUID(), name, capacity)
	require.NoError(t, err)
	return c
}

func TestBufferLedger_FullCellThenEvict(t *testing.T) {
	ledger := services.NewBufferLedger()
	cell := newCell(t, "A-01", 2)
	a, b, c := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	now := time.Now()

	_, err := ledger.Place(a, cell, nil, now)
	require.NoError(t, err)
	_, err = ledger.Place(b, cell, nil, now)
	require.NoError(t, err)

	_, err = ledger.Place(c, cell, nil, now)
	var rv *errs.RuleViolationError
	require.ErrorAs(t, err, &rv)
	assert.Equal(t, buffer.RuleCellFull, rv.Rule)

	evicted := ledger.Evict(a, cell, now)
	require.NotNil(t, evicted)
	assert.NotNil(t, evicted.RemovedAt())

	_, err = ledger.Place(c, cell, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 2, cell.Load())
	assert.Equal(t, buffer.Occupied, cell.Status())
}

func TestBufferLedger_MoveBetweenCells(t *testing.T) {
	ledger := services.NewBufferLedger()
	from := newCell(t, "A-01", 1)
	to := newCell(t, "A-02", 1)
	pallet := kernel.NewUUID()
	now := time.Now()

	_, err := ledger.Place(pallet, from, nil, now)
	require.NoError(t, err)
	assert.Equal(t, buffer.Occupied, from.Status())

	res, err := ledger.Place(pallet, to, from, now)

	require.NoError(t, err)
	assert.True(t, res.Created)
	require.NotNil(t, res.Vacated)
	assert.True(t, res.Vacated.CellID().IsEqual(from.ID()))
	assert.Equal(t, 0, from.Load())
	assert.Equal(t, buffer.Available, from.Status())
	assert.Equal(t, 1, to.Load())
}

func TestBufferLedger_RejectedPlaceKeepsCurrentCell(t *testing.T) {
	ledger := services.NewBufferLedger()
	from := newCell(t, "A-01", 1)
	to := newCell(t, "A-02", 1)
	pallet := kernel.NewUUID()
	now := time.Now()

	_, err := ledger.Place(pallet, from, nil, now)
	require.NoError(t, err)
	require.NoError(t, to.Reserve())

	_, err = ledger.Place(pallet, to, from, now)

	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.True(t, from.Holds(pallet))
}

func TestBufferLedger_PlaceIntoSameCellIsIdempotent(t *testing.T) {
	ledger := services.NewBufferLedger()
	cell := newCell(t, "A-01", 1)
	pallet := kernel.NewUUID()
	now := time.Now()

	first, err := ledger.Place(pallet, cell, nil, now)
	require.NoError(t, err)

	again, err := ledger.Place(pallet, cell, cell, now)

	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Nil(t, again.Vacated)
	assert.True(t, first.Placement.ID().IsEqual(again.Placement.ID()))
	assert.Equal(t, 1, cell.Load())
}

func TestBufferLedger_CapacityNeverExceeded(t *testing.T) {
	ledger := services.NewBufferLedger()
	cells := []*buffer.Cell{newCell(t, "C-1", 1), newCell(t, "C-2", 2), newCell(t, "C-3", 3)}
	pallets := make([]kernel.UUID, 8)
	where := map[kernel.UUID]*buffer.Cell{}
	for i := range pallets {
		pallets[i] = kernel.NewUUID()
	}

	for step := 0; step < 500; step++ {
		p := pallets[step%len(pallets)]
		target := cells[(step*7)%len(cells)]
		if step%5 == 0 {
			ledger.Evict(p, where[p], time.Now())
			delete(where, p)
		} else if _, err := ledger.Place(p, target, where[p], time.Now()); err == nil {
			where[p] = target
		}

		for _, c := range cells {
			assert.LessOrEqual(t, c.Load(), c.Capacity())
		}
	}
}
