package commands

import (
	"context"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/reclamation"
	"production/internal/pkg/tracing"
)

// ReportDefectCommandHandler deducts the defective quantity from the pallet and
// registers a reclamation for it. A pallet left empty is deleted.
type ReportDefectCommandHandler struct {
	uowFactory UoWFactory
	notifier   *Notifier
}

func NewReportDefectCommandHandler(uowFactory UoWFactory, notifier *Notifier) ReportDefectCommandHandler {
	return ReportDefectCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h ReportDefectCommandHandler) Handle(
	ctx context.Context,
	command ReportDefectCommand,
) (*reclamation.Reclamation, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o := newOutcome(now())
	rec, err := tracing.TracedOperation(ctx, tracer, "commands.ReportDefect",
		func(ctx context.Context) (*reclamation.Reclamation, error) {
			return h.handle(ctx, command, o)
		})
	if err != nil {
		return nil, err
	}

	h.notifier.notify(ctx, o)
	return rec, nil
}

func (h ReportDefectCommandHandler) handle(
	ctx context.Context,
	command ReportDefectCommand,
	o *outcome,
) (*reclamation.Reclamation, error) {
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

	stage, err := scope.route.Stage(command.RouteStageID())
	if err != nil {
		return nil, err
	}

	p := scope.pallet
	if err = p.Deduct(command.Quantity()); err != nil {
		return nil, err
	}

	palletID := p.ID()
	rec, err := reclamation.NewReclamation(
		kernel.NewUUID(), p.PartID(), &palletID, stage.ID(), command.Quantity(), o.at)
	if err != nil {
		return nil, err
	}
	if err = uow.ReclamationRepository().Add(ctx, rec); err != nil {
		return nil, err
	}

	if p.IsEmpty() {
		if err = deletePallet(ctx, uow, p, o); err != nil {
			return nil, err
		}
	} else if err = uow.PalletRepository().Update(ctx, p); err != nil {
		return nil, err
	}

	o.add(events.DefectReported{
		ReclamationID: rec.ID().String(),
		PartID:        p.PartID().String(),
		PalletID:      palletID.String(),
		RouteStageID:  stage.ID().String(),
		Quantity:      command.Quantity().Decimal(),
		PalletDeleted: p.IsEmpty(),
		At:            o.at,
	})

	if err = recomputePart(ctx, uow, scope.part, scope.route, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return rec, nil
}
