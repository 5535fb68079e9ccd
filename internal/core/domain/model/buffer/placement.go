package buffer

import (
	"errors"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrPlacementIsNotConstructed = errors.New("Placement must be created via NewPlacement constructor")

// Placement records a pallet sitting in a cell. It is open while removedAt is nil.
type Placement struct {
	id        kernel.UUID
	palletID  kernel.UUID
	cellID    kernel.UUID
	placedAt  time.Time
	removedAt *time.Time

	guard guard.ConstructorGuard
}

func NewPlacement(id kernel.UUID, palletID kernel.UUID, cellID kernel.UUID, placedAt time.Time) (*Placement, error) {
	return RestorePlacement(id, palletID, cellID, placedAt, nil)
}

func RestorePlacement(
	id kernel.UUID,
	palletID kernel.UUID,
	cellID kernel.UUID,
	placedAt time.Time,
	removedAt *time.Time,
) (*Placement, error) {
	if err := errors.Join(
		id.Validate(),
		palletID.Validate(),
		cellID.Validate(),
	); err != nil {
		return nil, err
	}
	if placedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("placedAt")
	}

	return &Placement{
		id:        id,
		palletID:  palletID,
		cellID:    cellID,
		placedAt:  placedAt,
		removedAt: removedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (p *Placement) Validate() error {
	if p == nil {
		return ErrPlacementIsNotConstructed
	}
	return p.guard.Validate(ErrPlacementIsNotConstructed)
}

func (p *Placement) ID() kernel.UUID {
	return p.id
}

func (p *Placement) PalletID() kernel.UUID {
	return p.palletID
}

func (p *Placement) CellID() kernel.UUID {
	return p.cellID
}

func (p *Placement) PlacedAt() time.Time {
	return p.placedAt
}

func (p *Placement) RemovedAt() *time.Time {
	return p.removedAt
}

func (p *Placement) IsOpen() bool {
	return p.removedAt == nil
}

func (p *Placement) close(at time.Time) {
	p.removedAt = &at
}
