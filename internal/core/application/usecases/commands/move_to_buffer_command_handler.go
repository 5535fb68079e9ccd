package commands

import (
	"context"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/services"
	"production/internal/pkg/tracing"
)

// MoveToBufferCommandHandler stores a pallet in a buffer cell. Stage progress
// and assignments are left as they are.
type MoveToBufferCommandHandler struct {
	uowFactory UoWFactory
	notifier   *Notifier
}

func NewMoveToBufferCommandHandler(uowFactory UoWFactory, notifier *Notifier) MoveToBufferCommandHandler {
	return MoveToBufferCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns the pallet's placement in the target cell. Moving a pallet into
// the cell that already holds it changes nothing.
func (h MoveToBufferCommandHandler) Handle(ctx context.Context, command MoveToBufferCommand) (*buffer.Placement, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o := newOutcome(now())
	placement, err := tracing.TracedOperation(ctx, tracer, "commands.MoveToBuffer",
		func(ctx context.Context) (*buffer.Placement, error) {
			return h.handle(ctx, command, o)
		})
	if err != nil {
		return nil, err
	}

	h.notifier.notify(ctx, o)
	return placement, nil
}

func (h MoveToBufferCommandHandler) handle(
	ctx context.Context,
	command MoveToBufferCommand,
	o *outcome,
) (*buffer.Placement, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := lockPallets(ctx, uow, command.PalletID()); err != nil {
		return nil, err
	}

	currentID, inBuffer, err := optional(uow.CellRepository().GetIDByPallet(ctx, command.PalletID()))
	if err != nil {
		return nil, err
	}

	ids := []kernel.UUID{command.CellID()}
	if inBuffer {
		ids = append(ids, currentID)
	}
	cells, err := lockCells(ctx, uow, ids...)
	if err != nil {
		return nil, err
	}
	target := cells[command.CellID()]
	var current *buffer.Cell
	if inBuffer {
		current = cells[currentID]
	}

	result, err := services.NewBufferLedger().Place(command.PalletID(), target, current, o.at)
	if err != nil {
		return nil, err
	}

	if result.Created {
		moved := events.PalletMoved{
			PalletID: command.PalletID().String(),
			ToCellID: target.ID().String(),
			At:       o.at,
		}
		// The old placement is closed before the new one is written: a pallet
		// has at most one open placement.
		if result.Vacated != nil {
			if err = uow.CellRepository().Update(ctx, current); err != nil {
				return nil, err
			}
			moved.FromCellID = current.ID().String()
		}
		if err = uow.CellRepository().Update(ctx, target); err != nil {
			return nil, err
		}
		o.add(moved)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return result.Placement, nil
}
