package commands

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrStartProcessingCommandIsNotConstructed = errors.New(
	"StartProcessingCommand must be created via NewStartProcessingCommand constructor",
)

// StartProcessingCommand moves a pallet's current stage to IN_PROGRESS on a machine.
// In supervised mode the pallet must have been assigned to that machine first;
// a self-service station takes the pallet directly.
//
// Example:
//
//	cmd, err := NewStartProcessingCommand(palletID, machineID, machine.Supervised)
//	if err != nil {
//	    return err
//	}
//	assignment, err := handler.Handle(ctx, cmd)
type StartProcessingCommand struct {
	palletID  kernel.UUID
	machineID kernel.UUID
	mode      machine.StationMode

	guard guard.ConstructorGuard
}

func NewStartProcessingCommand(
	palletID kernel.UUID,
	machineID kernel.UUID,
	mode machine.StationMode,
) (StartProcessingCommand, error) {
	if err := errors.Join(palletID.Validate(), machineID.Validate(), mode.Validate()); err != nil {
		return StartProcessingCommand{}, errs.NewValueIsInvalidErrorWithCause("startProcessing", err)
	}

	return StartProcessingCommand{
		palletID:  palletID,
		machineID: machineID,
		mode:      mode,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c *StartProcessingCommand) Validate() error {
	return c.guard.Validate(ErrStartProcessingCommandIsNotConstructed)
}

func (c *StartProcessingCommand) PalletID() kernel.UUID {
	return c.palletID
}

func (c *StartProcessingCommand) MachineID() kernel.UUID {
	return c.machineID
}

func (c *StartProcessingCommand) Mode() machine.StationMode {
	return c.mode
}
