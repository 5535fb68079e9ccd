package commands

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrMoveToBufferCommandIsNotConstructed = errors.New(
	"MoveToBufferCommand must be created via NewMoveToBufferCommand constructor",
)

// MoveToBufferCommand places a pallet into a buffer cell, leaving the cell it
// occupied before.
type MoveToBufferCommand struct {
	palletID kernel.UUID
	cellID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewMoveToBufferCommand(palletID kernel.UUID, cellID kernel.UUID) (MoveToBufferCommand, error) {
	if err := errors.Join(palletID.Validate(), cellID.Validate()); err != nil {
		return MoveToBufferCommand{}, errs.NewValueIsInvalidErrorWithCause("moveToBuffer", err)
	}

	return MoveToBufferCommand{
		palletID: palletID,
		cellID:   cellID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c *MoveToBufferCommand) Validate() error {
	return c.guard.Validate(ErrMoveToBufferCommandIsNotConstructed)
}

func (c *MoveToBufferCommand) PalletID() kernel.UUID {
	return c.palletID
}

func (c *MoveToBufferCommand) CellID() kernel.UUID {
	return c.cellID
}
