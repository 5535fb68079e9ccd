package commands

import (
	"context"

	"production/internal/core/domain/model/buffer"
	"production/internal/pkg/tracing"
)

// SetCellReservationCommandHandler reserves an empty cell or releases a reserved one.
type SetCellReservationCommandHandler struct {
	uowFactory BufferUoWFactory
}

func NewSetCellReservationCommandHandler(uowFactory BufferUoWFactory) SetCellReservationCommandHandler {
	return SetCellReservationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the cell after the change. Reserving a cell that holds pallets
// fails with CellNotEmpty.
func (h SetCellReservationCommandHandler) Handle(
	ctx context.Context,
	command SetCellReservationCommand,
) (*buffer.Cell, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	return tracing.TracedOperation(ctx, tracer, "commands.SetCellReservation",
		func(ctx context.Context) (*buffer.Cell, error) {
			uow := h.uowFactory.Create()
			if err := uow.Begin(ctx); err != nil {
				return nil, err
			}

			defer func() {
				_ = uow.Rollback(ctx)
			}()

			cells, err := lockCells(ctx, uow, command.CellID())
			if err != nil {
				return nil, err
			}
			cell := cells[command.CellID()]

			if command.Reserved() {
				if err = cell.Reserve(); err != nil {
					return nil, err
				}
			} else {
				cell.Release()
			}

			if err = uow.CellRepository().Update(ctx, cell); err != nil {
				return nil, err
			}
			if err = uow.Commit(ctx); err != nil {
				return nil, err
			}
			return cell, nil
		})
}
