package commands

import (
	"context"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/pallet"
	"production/internal/core/domain/model/progress"
	"production/internal/pkg/tracing"
)

// CreatePalletCommandHandler allocates quantity that is not yet on any pallet
// and not written off as defective. The new pallet starts at the first stage.
type CreatePalletCommandHandler struct {
	uowFactory UoWFactory
	notifier   *Notifier
}

func NewCreatePalletCommandHandler(uowFactory UoWFactory, notifier *Notifier) CreatePalletCommandHandler {
	return CreatePalletCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h CreatePalletCommandHandler) Handle(ctx context.Context, command CreatePalletCommand) (*pallet.Pallet, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o := newOutcome(now())
	created, err := tracing.TracedOperation(ctx, tracer, "commands.CreatePallet",
		func(ctx context.Context) (*pallet.Pallet, error) {
			return h.handle(ctx, command, o)
		})
	if err != nil {
		return nil, err
	}

	h.notifier.notify(ctx, o)
	return created, nil
}

func (h CreatePalletCommandHandler) handle(
	ctx context.Context,
	command CreatePalletCommand,
	o *outcome,
) (*pallet.Pallet, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pt, err := uow.PartRepository().GetForUpdate(ctx, command.PartID())
	if err != nil {
		return nil, err
	}
	r, err := uow.RouteRepository().Get(ctx, pt.RouteID())
	if err != nil {
		return nil, err
	}

	pallets, err := uow.PalletRepository().ListByPart(ctx, pt.ID())
	if err != nil {
		return nil, err
	}
	defective, err := uow.ReclamationRepository().SumByPart(ctx, pt.ID())
	if err != nil {
		return nil, err
	}
	allocated := defective
	for _, p := range pallets {
		allocated = allocated.Add(p.Quantity())
	}
	if err = pt.EnsureCanAllocate(allocated, command.Quantity()); err != nil {
		return nil, err
	}

	number, err := uow.PalletRepository().NextNumber(ctx, pt.ID())
	if err != nil {
		return nil, err
	}
	created, err := pallet.NewPallet(kernel.NewUUID(), pt.ID(), number, command.Quantity())
	if err != nil {
		return nil, err
	}
	if err = uow.PalletRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	tracker, err := progress.NewTracker(r, created.ID(), nil)
	if err != nil {
		return nil, err
	}
	if _, err = tracker.EnsureProgress(r.First()); err != nil {
		return nil, err
	}
	if err = saveProgress(ctx, uow, tracker); err != nil {
		return nil, err
	}

	if err = recomputePart(ctx, uow, pt, r, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
