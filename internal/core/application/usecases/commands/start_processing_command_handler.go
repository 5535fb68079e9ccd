package commands

import (
	"context"
	"fmt"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/progress"
	"production/internal/core/domain/services"
	"production/internal/pkg/errs"
	"production/internal/pkg/tracing"
)

// StartProcessingCommandHandler starts work on a pallet's current stage.
// The pallet leaves any buffer cell it occupied, its assignment moves to the
// machine, and the part aggregate is recomputed.
type StartProcessingCommandHandler struct {
	uowFactory UoWFactory
	notifier   *Notifier
}

func NewStartProcessingCommandHandler(uowFactory UoWFactory, notifier *Notifier) StartProcessingCommandHandler {
	return StartProcessingCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns the pallet's open assignment on the machine. Starting a stage
// that is already in progress on the same machine changes nothing.
func (h StartProcessingCommandHandler) Handle(
	ctx context.Context,
	command StartProcessingCommand,
) (*machine.Assignment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o := newOutcome(now())
	assignment, err := tracing.TracedOperation(ctx, tracer, "commands.StartProcessing",
		func(ctx context.Context) (*machine.Assignment, error) {
			return h.handle(ctx, command, o)
		})
	if err != nil {
		return nil, err
	}

	h.notifier.notify(ctx, o)
	return assignment, nil
}

func (h StartProcessingCommandHandler) handle(
	ctx context.Context,
	command StartProcessingCommand,
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
	status := scope.tracker.StatusOf(stage.ID())

	open, _, err := optional(uow.AssignmentRepository().GetOpenByPallet(ctx, scope.pallet.ID()))
	if err != nil {
		return nil, err
	}

	if command.Mode() == machine.Supervised {
		assigned := open != nil && open.IsOn(m.ID()) && open.RouteStageID().IsEqual(stage.ID())
		if !assigned || (status != progress.Pending && status != progress.InProgress) {
			return nil, errs.NewRuleViolationError(machine.RuleNotAssigned,
				fmt.Sprintf("pallet %d is not assigned to machine %s for stage %s",
					scope.pallet.Number(), m.Name(), stage.StageName()))
		}
	}

	result, err := services.NewAssignmentLedger().Assign(scope.pallet.ID(), m, stage, status, open, o.at)
	if err != nil {
		return nil, err
	}
	if err = applyAssignment(ctx, uow, result, o); err != nil {
		return nil, err
	}

	if status != progress.InProgress {
		if err = scope.tracker.AdvanceToInProgress(stage); err != nil {
			return nil, err
		}
		o.add(events.StageStarted{
			PalletID:     scope.pallet.ID().String(),
			PartID:       scope.part.ID().String(),
			RouteStageID: stage.ID().String(),
			MachineID:    m.ID().String(),
			At:           o.at,
		})
	}
	if err = saveProgress(ctx, uow, scope.tracker); err != nil {
		return nil, err
	}

	if err = evict(ctx, uow, scope.pallet.ID(), m.ID().String(), o); err != nil {
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
