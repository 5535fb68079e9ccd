package commands

import (
	"context"

	"production/internal/core/domain/events"
	"production/internal/core/domain/services"
	"production/internal/pkg/tracing"
)

// CompleteProcessingCommandHandler completes the stage of the pallet's open
// assignment on the machine and closes that assignment. When the final routing
// stage of the last pallet of a part completes, packaging is signalled after commit.
type CompleteProcessingCommandHandler struct {
	uowFactory UoWFactory
	notifier   *Notifier
}

func NewCompleteProcessingCommandHandler(uowFactory UoWFactory, notifier *Notifier) CompleteProcessingCommandHandler {
	return CompleteProcessingCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h CompleteProcessingCommandHandler) Handle(ctx context.Context, command CompleteProcessingCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	o := newOutcome(now())
	err := tracing.TracedVoidOperation(ctx, tracer, "commands.CompleteProcessing",
		func(ctx context.Context) error {
			return h.handle(ctx, command, o)
		})
	if err != nil {
		return err
	}

	h.notifier.notify(ctx, o)
	return nil
}

func (h CompleteProcessingCommandHandler) handle(ctx context.Context, command CompleteProcessingCommand, o *outcome) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	scope, err := lockPalletScope(ctx, uow, command.PalletID())
	if err != nil {
		return err
	}

	m, err := uow.MachineRepository().Get(ctx, command.MachineID())
	if err != nil {
		return err
	}

	open, _, err := optional(uow.AssignmentRepository().GetOpenByPallet(ctx, scope.pallet.ID()))
	if err != nil {
		return err
	}

	ledger := services.NewAssignmentLedger()
	if open == nil || !open.IsOn(m.ID()) {
		// Reports NoActiveAssignment without touching anything.
		return ledger.Complete(m, open, o.at)
	}

	stage, err := scope.route.Stage(open.RouteStageID())
	if err != nil {
		return err
	}
	if _, err = scope.tracker.Complete(stage, o.at); err != nil {
		return err
	}
	if err = ledger.Complete(m, open, o.at); err != nil {
		return err
	}

	if err = uow.AssignmentRepository().Update(ctx, open); err != nil {
		return err
	}
	if err = saveProgress(ctx, uow, scope.tracker); err != nil {
		return err
	}
	o.add(
		events.StageCompleted{
			PalletID:     scope.pallet.ID().String(),
			PartID:       scope.part.ID().String(),
			RouteStageID: stage.ID().String(),
			MachineID:    m.ID().String(),
			At:           o.at,
		},
		assignmentChanged(open, events.AssignmentClosed, o.at),
	)

	if err = recomputePart(ctx, uow, scope.part, scope.route, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
