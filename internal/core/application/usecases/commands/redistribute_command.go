package commands

import (
	"errors"
	"fmt"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var (
	ErrRedistributeCommandIsNotConstructed = errors.New(
		"RedistributeCommand must be created via NewRedistributeCommand constructor",
	)
	ErrDistributionIsNotConstructed = errors.New(
		"Distribution must be created via NewDistribution constructor",
	)
)

// Distribution is one share of a redistributed pallet: quantity goes onto the
// target pallet, or onto a new pallet when no target is given.
type Distribution struct {
	targetPalletID *kernel.UUID
	quantity       kernel.Quantity

	guard guard.ConstructorGuard
}

func NewDistribution(targetPalletID *kernel.UUID, quantity kernel.Quantity) (Distribution, error) {
	if targetPalletID != nil {
		if err := targetPalletID.Validate(); err != nil {
			return Distribution{}, errs.NewValueIsInvalidErrorWithCause("targetPalletID", err)
		}
	}
	if !quantity.IsPositive() {
		return Distribution{}, errs.NewValueIsOutOfRangeError("quantity", quantity.String(), "greater than 0", "unbounded")
	}

	return Distribution{
		targetPalletID: targetPalletID,
		quantity:       quantity,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (d Distribution) TargetPalletID() *kernel.UUID {
	return d.targetPalletID
}

func (d Distribution) Quantity() kernel.Quantity {
	return d.quantity
}

// RedistributeCommand splits a pallet's quantity onto new or existing pallets of
// the same part. In self-service mode new pallets also inherit the current stage
// and the open assignment; machineID, when set, must hold that assignment.
type RedistributeCommand struct {
	sourcePalletID kernel.UUID
	distributions  []Distribution
	mode           machine.StationMode
	machineID      *kernel.UUID

	guard guard.ConstructorGuard
}

func NewRedistributeCommand(
	sourcePalletID kernel.UUID,
	distributions []Distribution,
	mode machine.StationMode,
	machineID *kernel.UUID,
) (RedistributeCommand, error) {
	errList := []error{sourcePalletID.Validate(), mode.Validate()}
	if machineID != nil {
		errList = append(errList, machineID.Validate())
	}
	if len(distributions) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("distributions"))
	}

	seen := map[kernel.UUID]bool{}
	for i, d := range distributions {
		if err := d.guard.Validate(ErrDistributionIsNotConstructed); err != nil {
			errList = append(errList, err)
			continue
		}
		if d.targetPalletID == nil {
			continue
		}
		target := *d.targetPalletID
		if target.IsEqual(sourcePalletID) {
			errList = append(errList, fmt.Errorf("distribution %d targets the source pallet", i))
		}
		if seen[target] {
			errList = append(errList, fmt.Errorf("distribution %d repeats target pallet %s", i, target))
		}
		seen[target] = true
	}

	if err := errors.Join(errList...); err != nil {
		return RedistributeCommand{}, errs.NewValueIsInvalidErrorWithCause("redistribute", err)
	}

	return RedistributeCommand{
		sourcePalletID: sourcePalletID,
		distributions:  distributions,
		mode:           mode,
		machineID:      machineID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c *RedistributeCommand) Validate() error {
	return c.guard.Validate(ErrRedistributeCommandIsNotConstructed)
}

func (c *RedistributeCommand) SourcePalletID() kernel.UUID {
	return c.sourcePalletID
}

func (c *RedistributeCommand) Distributions() []Distribution {
	return c.distributions
}

func (c *RedistributeCommand) Mode() machine.StationMode {
	return c.mode
}

func (c *RedistributeCommand) MachineID() *kernel.UUID {
	return c.machineID
}

// targetIDs lists the existing pallets the command writes to.
func (c *RedistributeCommand) targetIDs() []kernel.UUID {
	var ids []kernel.UUID
	for _, d := range c.distributions {
		if d.targetPalletID != nil {
			ids = append(ids, *d.targetPalletID)
		}
	}
	return ids
}

// total is the quantity taken off the source pallet.
func (c *RedistributeCommand) total() kernel.Quantity {
	total := kernel.ZeroQuantity()
	for _, d := range c.distributions {
		total = total.Add(d.quantity)
	}
	return total
}
