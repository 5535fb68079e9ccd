package commands

import (
	"context"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/services"
	"production/internal/pkg/tracing"
)

// MoveToMachineCommandHandler closes the pallet's open assignment and opens one
// on the target machine for the same stage. Work restarts there, so the stage
// falls back to PENDING.
type MoveToMachineCommandHandler struct {
	uowFactory UoWFactory
	notifier   *Notifier
}

func NewMoveToMachineCommandHandler(uowFactory UoWFactory, notifier *Notifier) MoveToMachineCommandHandler {
	return MoveToMachineCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h MoveToMachineCommandHandler) Handle(ctx context.Context, command MoveToMachineCommand) (*machine.Assignment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o := newOutcome(now())
	assignment, err := tracing.TracedOperation(ctx, tracer, "commands.MoveToMachine",
		func(ctx context.Context) (*machine.Assignment, error) {
			return h.handle(ctx, command, o)
		})
	if err != nil {
		return nil, err
	}

	h.notifier.notify(ctx, o)
	return assignment, nil
}

func (h MoveToMachineCommandHandler) handle(
	ctx context.Context,
	command MoveToMachineCommand,
	o *outcome,
) (*machine.Assignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	scope, err := lockPalletScope(ctx, uow, command.PalletID())
	if err != nil {
		return nil, err
	}

	target, err := uow.MachineRepository().Get(ctx, command.MachineID())
	if err != nil {
		return nil, err
	}

	latest, _, err := optional(uow.AssignmentRepository().GetLatestByPallet(ctx, scope.pallet.ID()))
	if err != nil {
		return nil, err
	}

	stage, err := scope.tracker.CurrentStage()
	if err != nil {
		return nil, err
	}

	result, err := services.NewAssignmentLedger().Move(scope.pallet.ID(), target, stage, latest, o.at)
	if err != nil {
		return nil, err
	}
	if !result.Opened {
		return result.Assignment, nil
	}

	if err = applyAssignment(ctx, uow, result, o); err != nil {
		return nil, err
	}
	if err = scope.tracker.MarkPending(stage); err != nil {
		return nil, err
	}
	if err = saveProgress(ctx, uow, scope.tracker); err != nil {
		return nil, err
	}
	o.add(events.PalletMoved{
		PalletID:  scope.pallet.ID().String(),
		MachineID: target.ID().String(),
		At:        o.at,
	})

	if err = recomputePart(ctx, uow, scope.part, scope.route, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return result.Assignment, nil
}
