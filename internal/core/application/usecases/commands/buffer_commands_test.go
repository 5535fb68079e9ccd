package commands_test

import (
	"testing"

	"production/internal/core/application/usecases/commands"
	"production/internal/core/domain/model/buffer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setReservation(t *testing.T, w *world, c *buffer.Cell, reserved bool) (*buffer.Cell, error) {
	t.Helper()
	cmd, err := commands.NewSetCellReservationCommand(c.ID(), reserved)
	require.NoError(t, err)
	return commands.NewSetCellReservationCommandHandler(fakeBufferFactory{w.db}).Handle(t.Context(), cmd)
}

func TestSetCellReservationCommandHandler(t *testing.T) {
	w := newWorld(t, 2)
	empty := w.addCell(t, 2)
	used := w.addCell(t, 2)
	p := w.addPallet(t, 10, 0)
	_, err := w.moveToBuffer(t, p, used)
	require.NoError(t, err)

	reserved, err := setReservation(t, w, empty, true)
	require.NoError(t, err)
	assert.Equal(t, buffer.Reserved, reserved.Status())
	assert.True(t, w.db.state.cells[empty.ID()].reserved)

	_, err = setReservation(t, w, used, true)
	requireRule(t, err, buffer.RuleCellNotEmpty)
	assert.False(t, w.db.state.cells[used.ID()].reserved)

	released, err := setReservation(t, w, empty, false)
	require.NoError(t, err)
	assert.Equal(t, buffer.Available, released.Status())
}

func TestReconcileBufferCommandHandler_RepairsDriftedCells(t *testing.T) {
	w := newWorld(t, 2)
	healthy := w.addCell(t, 2)
	drifted := w.addCell(t, 2)
	p := w.addPallet(t, 10, 0)
	_, err := w.moveToBuffer(t, p, drifted)
	require.NoError(t, err)

	rec := w.db.state.cells[drifted.ID()]
	rec.load = 5
	w.db.state.cells[drifted.ID()] = rec

	handler := commands.NewReconcileBufferCommandHandler(fakeBufferFactory{w.db})
	result, err := handler.Handle(t.Context(), commands.NewReconcileBufferCommand())
	require.NoError(t, err)

	assert.Equal(t, commands.ReconcileResult{Checked: 2, Repaired: 1}, result)
	assert.Equal(t, 1, w.db.state.cells[drifted.ID()].load)
	assert.Equal(t, 0, w.db.state.cells[healthy.ID()].load)

	result, err = handler.Handle(t.Context(), commands.NewReconcileBufferCommand())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Repaired)
}
