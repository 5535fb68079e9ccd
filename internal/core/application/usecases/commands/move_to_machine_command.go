package commands

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrMoveToMachineCommandIsNotConstructed = errors.New(
	"MoveToMachineCommand must be created via NewMoveToMachineCommand constructor",
)

// MoveToMachineCommand hands a pallet's current work over to another machine.
type MoveToMachineCommand struct {
	palletID  kernel.UUID
	machineID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMoveToMachineCommand(palletID kernel.UUID, machineID kernel.UUID) (MoveToMachineCommand, error) {
	if err := errors.Join(palletID.Validate(), machineID.Validate()); err != nil {
		return MoveToMachineCommand{}, errs.NewValueIsInvalidErrorWithCause("moveToMachine", err)
	}

	return MoveToMachineCommand{
		palletID:  palletID,
		machineID: machineID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c *MoveToMachineCommand) Validate() error {
	return c.guard.Validate(ErrMoveToMachineCommandIsNotConstructed)
}

func (c *MoveToMachineCommand) PalletID() kernel.UUID {
	return c.palletID
}

func (c *MoveToMachineCommand) MachineID() kernel.UUID {
	return c.machineID
}
