package commands

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrAssignPalletCommandIsNotConstructed = errors.New(
	"AssignPalletCommand must be created via NewAssignPalletCommand constructor",
)

// AssignPalletCommand is a supervisor's shift assignment of a pallet to a machine
// for its current stage.
type AssignPalletCommand struct {
	palletID  kernel.UUID
	machineID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignPalletCommand(palletID kernel.UUID, machineID kernel.UUID) (AssignPalletCommand, error) {
	if err := errors.Join(palletID.Validate(), machineID.Validate()); err != nil {
		return AssignPalletCommand{}, errs.NewValueIsInvalidErrorWithCause("assignPallet", err)
	}

	return AssignPalletCommand{
		palletID:  palletID,
		machineID: machineID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c *AssignPalletCommand) Validate() error {
	return c.guard.Validate(ErrAssignPalletCommandIsNotConstructed)
}

func (c *AssignPalletCommand) PalletID() kernel.UUID {
	return c.palletID
}

func (c *AssignPalletCommand) MachineID() kernel.UUID {
	return c.machineID
}
