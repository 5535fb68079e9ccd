package commands

import (
	"context"

	"production/internal/pkg/tracing"
)

type ReconcileResult struct {
	Checked  int
	Repaired int
}

// ReconcileBufferCommandHandler repairs cells whose stored load or status has
// drifted from their open placements.
type ReconcileBufferCommandHandler struct {
	uowFactory BufferUoWFactory
}

func NewReconcileBufferCommandHandler(uowFactory BufferUoWFactory) ReconcileBufferCommandHandler {
	return ReconcileBufferCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h ReconcileBufferCommandHandler) Handle(ctx context.Context, command ReconcileBufferCommand) (ReconcileResult, error) {
	if err := command.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	return tracing.TracedOperation(ctx, tracer, "commands.ReconcileBuffer",
		func(ctx context.Context) (ReconcileResult, error) {
			uow := h.uowFactory.Create()
			if err := uow.Begin(ctx); err != nil {
				return ReconcileResult{}, err
			}

			defer func() {
				_ = uow.Rollback(ctx)
			}()

			cells, err := uow.CellRepository().ListForUpdate(ctx)
			if err != nil {
				return ReconcileResult{}, err
			}

			result := ReconcileResult{Checked: len(cells)}
			for _, cell := range cells {
				if !cell.Drifted() {
					continue
				}
				if err = uow.CellRepository().Update(ctx, cell); err != nil {
					return ReconcileResult{}, err
				}
				result.Repaired++
			}

			if err = uow.Commit(ctx); err != nil {
				return ReconcileResult{}, err
			}
			return result, nil
		})
}
