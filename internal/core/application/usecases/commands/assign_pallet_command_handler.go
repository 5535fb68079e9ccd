package commands

import (
	"context"

	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/services"
	"production/internal/pkg/tracing"
)

// AssignPalletCommandHandler opens an assignment for the pallet's current stage
// and marks that stage PENDING. A stale assignment on another machine is closed;
// one whose stage is already in progress blocks the call.
type AssignPalletCommandHandler struct {
	uowFactory UoWFactory
	notifier   *Notifier
}

func NewAssignPalletCommandHandler(uowFactory UoWFactory, notifier *Notifier) AssignPalletCommandHandler {
	return AssignPalletCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h AssignPalletCommandHandler) Handle(ctx context.Context, command AssignPalletCommand) (*machine.Assignment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o := newOutcome(now())
	assignment, err := tracing.TracedOperation(ctx, tracer, "commands.AssignPallet",
		func(ctx context.Context) (*machine.Assignment, error) {
			return h.handle(ctx, command, o)
		})
	if err != nil {
		return nil, err
	}

	h.notifier.notify(ctx, o)
	return assignment, nil
}

func (h AssignPalletCommandHandler) handle(
	ctx context.Context,
	command AssignPalletCommand,
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

	m, err := uow.MachineRepository().Get(ctx, command.MachineID())
	if err != nil {
		return nil, err
	}
	if err = m.EnsureActive(); err != nil {
		return nil, err
	}

	stage, err := scope.tracker.CurrentStage()
	if err != nil {
		return nil, err
	}

	open, _, err := optional(uow.AssignmentRepository().GetOpenByPallet(ctx, scope.pallet.ID()))
	if err != nil {
		return nil, err
	}

	result, err := services.NewAssignmentLedger().Assign(
		scope.pallet.ID(), m, stage, scope.tracker.StatusOf(stage.ID()), open, o.at)
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

	if err = recomputePart(ctx, uow, scope.part, scope.route, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return result.Assignment, nil
}
