package commands

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrSetCellReservationCommandIsNotConstructed = errors.New(
	"SetCellReservationCommand must be created via NewSetCellReservationCommand constructor",
)

// SetCellReservationCommand reserves or releases a buffer cell.
type SetCellReservationCommand struct {
	cellID   kernel.UUID
	reserved bool

	guard guard.ConstructorGuard
}

func NewSetCellReservationCommand(cellID kernel.UUID, reserved bool) (SetCellReservationCommand, error) {
	if err := cellID.Validate(); err != nil {
		return SetCellReservationCommand{}, errs.NewValueIsInvalidErrorWithCause("cellID", err)
	}

	return SetCellReservationCommand{
		cellID:   cellID,
		reserved: reserved,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c *SetCellReservationCommand) Validate() error {
	return c.guard.Validate(ErrSetCellReservationCommandIsNotConstructed)
}

func (c *SetCellReservationCommand) CellID() kernel.UUID {
	return c.cellID
}

func (c *SetCellReservationCommand) Reserved() bool {
	return c.reserved
}
