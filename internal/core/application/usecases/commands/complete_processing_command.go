package commands

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrCompleteProcessingCommandIsNotConstructed = errors.New(
	"CompleteProcessingCommand must be created via NewCompleteProcessingCommand constructor",
)

// CompleteProcessingCommand finishes the stage a machine is working on for a pallet.
type CompleteProcessingCommand struct {
	palletID  kernel.UUID
	machineID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteProcessingCommand(palletID kernel.UUID, machineID kernel.UUID) (CompleteProcessingCommand, error) {
	if err := errors.Join(palletID.Validate(), machineID.Validate()); err != nil {
		return CompleteProcessingCommand{}, errs.NewValueIsInvalidErrorWithCause("completeProcessing", err)
	}

	return CompleteProcessingCommand{
		palletID:  palletID,
		machineID: machineID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c *CompleteProcessingCommand) Validate() error {
	return c.guard.Validate(ErrCompleteProcessingCommandIsNotConstructed)
}

func (c *CompleteProcessingCommand) PalletID() kernel.UUID {
	return c.palletID
}

func (c *CompleteProcessingCommand) MachineID() kernel.UUID {
	return c.machineID
}
