package commands

import (
	"context"
	"fmt"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/pallet"
	"production/internal/core/domain/model/part"
	"production/internal/pkg/errs"
	"production/internal/pkg/tracing"
)

// RedistributeResult lists the pallets that received quantity, in distribution order.
type RedistributeResult struct {
	Targets       []*pallet.Pallet
	SourceDeleted bool
}

// RedistributeCommandHandler moves quantity from a source pallet onto other
// pallets of the same part. New pallets start from a copy of the source's
// completed history. An emptied source pallet is deleted.
type RedistributeCommandHandler struct {
	uowFactory UoWFactory
	notifier   *Notifier
}

func NewRedistributeCommandHandler(uowFactory UoWFactory, notifier *Notifier) RedistributeCommandHandler {
	return RedistributeCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h RedistributeCommandHandler) Handle(ctx context.Context, command RedistributeCommand) (RedistributeResult, error) {
	if err := command.Validate(); err != nil {
		return RedistributeResult{}, err
	}

	o := newOutcome(now())
	result, err := tracing.TracedOperation(ctx, tracer, "commands.Redistribute",
		func(ctx context.Context) (RedistributeResult, error) {
			return h.handle(ctx, command, o)
		})
	if err != nil {
		return RedistributeResult{}, err
	}

	h.notifier.notify(ctx, o)
	return result, nil
}

func (h RedistributeCommandHandler) handle(
	ctx context.Context,
	command RedistributeCommand,
	o *outcome,
) (RedistributeResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RedistributeResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	locked, err := lockPallets(ctx, uow, append([]kernel.UUID{command.SourcePalletID()}, command.targetIDs()...)...)
	if err != nil {
		return RedistributeResult{}, err
	}
	source := locked[command.SourcePalletID()]
	for _, id := range command.targetIDs() {
		if err = source.EnsureSamePart(locked[id]); err != nil {
			return RedistributeResult{}, err
		}
	}

	if requested := command.total(); requested.GreaterThan(source.Quantity()) {
		return RedistributeResult{}, errs.NewRuleViolationError(part.RuleOverAllocation,
			fmt.Sprintf("pallet %d carries %s, distributions request %s", source.Number(), source.Quantity(), requested))
	}

	scope, err := loadScope(ctx, uow, source)
	if err != nil {
		return RedistributeResult{}, err
	}

	selfService := command.Mode() == machine.SelfService
	var open *machine.Assignment
	if selfService {
		open, _, err = optional(uow.AssignmentRepository().GetOpenByPallet(ctx, source.ID()))
		if err != nil {
			return RedistributeResult{}, err
		}
		if id := command.MachineID(); id != nil && (open == nil || !open.IsOn(*id)) {
			return RedistributeResult{}, errs.NewRuleViolationError(machine.RuleNoActiveAssignment,
				fmt.Sprintf("pallet %d is not being processed on machine %s", source.Number(), id))
		}
	}

	redistributed := events.PalletRedistributed{
		SourcePalletID: source.ID().String(),
		PartID:         source.PartID().String(),
		At:             o.at,
	}
	result := RedistributeResult{}
	nextNumber := 0

	for _, d := range command.Distributions() {
		if err = source.Deduct(d.Quantity()); err != nil {
			return RedistributeResult{}, err
		}

		if id := d.TargetPalletID(); id != nil {
			target := locked[*id]
			if err = target.Add(d.Quantity()); err != nil {
				return RedistributeResult{}, err
			}
			if err = uow.PalletRepository().Update(ctx, target); err != nil {
				return RedistributeResult{}, err
			}
			result.Targets = append(result.Targets, target)
			redistributed.Targets = append(redistributed.Targets, events.RedistributionTarget{
				PalletID: target.ID().String(),
				Quantity: d.Quantity().Decimal(),
			})
			continue
		}

		if nextNumber == 0 {
			if nextNumber, err = uow.PalletRepository().NextNumber(ctx, source.PartID()); err != nil {
				return RedistributeResult{}, err
			}
		}
		created, err := pallet.NewPallet(kernel.NewUUID(), source.PartID(), nextNumber, d.Quantity())
		if err != nil {
			return RedistributeResult{}, err
		}
		nextNumber++
		if err = uow.PalletRepository().Add(ctx, created); err != nil {
			return RedistributeResult{}, err
		}

		rows, err := scope.tracker.Snapshot(created.ID(), selfService)
		if err != nil {
			return RedistributeResult{}, err
		}
		if len(rows) > 0 {
			if err = uow.StageProgressRepository().Add(ctx, rows...); err != nil {
				return RedistributeResult{}, err
			}
		}

		if selfService && open != nil {
			copied, err := machine.NewAssignment(kernel.NewUUID(), created.ID(), open.MachineID(), open.RouteStageID(), o.at)
			if err != nil {
				return RedistributeResult{}, err
			}
			if err = uow.AssignmentRepository().Add(ctx, copied); err != nil {
				return RedistributeResult{}, err
			}
			o.add(assignmentChanged(copied, events.AssignmentOpened, o.at))
		}

		result.Targets = append(result.Targets, created)
		redistributed.Targets = append(redistributed.Targets, events.RedistributionTarget{
			PalletID: created.ID().String(),
			Quantity: d.Quantity().Decimal(),
			Created:  true,
		})
	}

	if source.IsEmpty() {
		if err = deletePallet(ctx, uow, source, o); err != nil {
			return RedistributeResult{}, err
		}
		result.SourceDeleted = true
	} else if err = uow.PalletRepository().Update(ctx, source); err != nil {
		return RedistributeResult{}, err
	}
	redistributed.SourceDeleted = result.SourceDeleted
	o.add(redistributed)

	if err = recomputePart(ctx, uow, scope.part, scope.route, o); err != nil {
		return RedistributeResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RedistributeResult{}, err
	}

	return result, nil
}
