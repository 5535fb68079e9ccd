package commands_test

import (
	"testing"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/machine"
	"production/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveToBufferCommandHandler_FullCellThenEvict(t *testing.T) {
	w := newWorld(t, 2)
	m := w.addMachine(t, machine.Active, w.stages[0])
	c := w.addCell(t, 1)
	p1 := w.addPallet(t, 10, 0)
	p2 := w.addPallet(t, 10, 0)

	_, err := w.moveToBuffer(t, p1, c)
	require.NoError(t, err)

	_, err = w.moveToBuffer(t, p2, c)
	requireRule(t, err, buffer.RuleCellFull)
	assert.Equal(t, errs.KindInvariantViolation, errs.KindOf(err))
	assert.Nil(t, w.db.openPlacementOf(p2.ID()))

	_, err = w.start(t, p1, m, machine.SelfService)
	require.NoError(t, err)
	assert.Equal(t, 0, w.db.state.cells[c.ID()].load)

	placement, err := w.moveToBuffer(t, p2, c)
	require.NoError(t, err)
	assert.True(t, placement.CellID().IsEqual(c.ID()))
	assert.Equal(t, 1, w.db.state.cells[c.ID()].load)
}

func TestMoveToBufferCommandHandler_MovesBetweenCells(t *testing.T) {
	w := newWorld(t, 2)
	from := w.addCell(t, 2)
	to := w.addCell(t, 2)
	p := w.addPallet(t, 10, 0)

	_, err := w.moveToBuffer(t, p, from)
	require.NoError(t, err)
	w.publisher.reset()

	_, err = w.moveToBuffer(t, p, to)
	require.NoError(t, err)

	assert.Equal(t, 0, w.db.state.cells[from.ID()].load)
	assert.Equal(t, 1, w.db.state.cells[to.ID()].load)
	assert.True(t, w.db.openPlacementOf(p.ID()).CellID().IsEqual(to.ID()))

	require.Len(t, w.publisher.Calls, 1)
	published := w.publisher.Calls[0].Arguments.Get(1).([]events.Event)
	require.Len(t, published, 1)
	moved := published[0].(events.PalletMoved)
	assert.Equal(t, from.ID().String(), moved.FromCellID)
	assert.Equal(t, to.ID().String(), moved.ToCellID)
}

func TestMoveToBufferCommandHandler_SameCellIsIdempotent(t *testing.T) {
	w := newWorld(t, 2)
	c := w.addCell(t, 1)
	p := w.addPallet(t, 10, 0)

	first, err := w.moveToBuffer(t, p, c)
	require.NoError(t, err)
	w.publisher.reset()

	again, err := w.moveToBuffer(t, p, c)
	require.NoError(t, err)

	assert.True(t, first.ID().IsEqual(again.ID()))
	assert.Equal(t, 1, w.db.state.cells[c.ID()].load)
	assert.Empty(t, w.publisher.topics())
}

func TestMoveToBufferCommandHandler_ReservedCell(t *testing.T) {
	w := newWorld(t, 2)
	c := w.addCell(t, 2)
	p := w.addPallet(t, 10, 0)

	_, err := setReservation(t, w, c, true)
	require.NoError(t, err)

	_, err = w.moveToBuffer(t, p, c)
	requireRule(t, err, buffer.RuleCellUnavailable)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}
